// Package username builds candidate usernames from a person's name.
package username

import (
	"strconv"

	"github.com/dtroode/account-server/internal/model"
)

// SuffixBound is the exclusive upper bound of the numeric suffix.
const SuffixBound int64 = 1_000_000_000

// Generator appends a random numeric suffix to a seed.
type Generator struct {
	rand model.RandomSource
}

// NewGenerator creates a Generator drawing suffixes from rand.
func NewGenerator(rand model.RandomSource) *Generator {
	return &Generator{rand: rand}
}

// Seed joins first and last name without a separator.
func Seed(firstName, lastName string) string {
	return firstName + lastName
}

// Candidate returns seed followed by a uniform integer in [0, SuffixBound).
func (g *Generator) Candidate(seed string) string {
	return seed + strconv.FormatInt(g.rand.Int64N(SuffixBound), 10)
}

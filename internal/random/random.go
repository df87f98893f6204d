// Package random provides the process-wide random source backed by crypto/rand.
package random

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/dtroode/account-server/internal/model"
)

var _ model.RandomSource = Crypto{}

// Crypto draws integers from crypto/rand. The zero value is ready to use
// and safe for concurrent use.
type Crypto struct{}

// Int64N returns a uniform integer in [0, n).
func (Crypto) Int64N(n int64) int64 {
	if n <= 0 {
		panic(fmt.Sprintf("random: invalid bound %d", n))
	}
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		// crypto/rand.Reader does not fail on supported platforms.
		panic(fmt.Sprintf("random: crypto/rand failed: %v", err))
	}
	return v.Int64()
}

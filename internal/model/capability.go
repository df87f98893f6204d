package model

// PasswordHasher is a one-way password hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Compare returns nil when plaintext matches hash.
	Compare(hash, plaintext string) error
}

// RandomSource draws uniform integers.
type RandomSource interface {
	// Int64N returns a uniform integer in [0, n). It panics if n <= 0.
	Int64N(n int64) int64
}

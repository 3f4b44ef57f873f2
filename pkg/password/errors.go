package password

import "errors"

var (
	// ErrHashFailed is returned when the key derivation itself fails.
	ErrHashFailed = errors.New("password: failed to hash password")

	// ErrInvalidHashFormat is returned by Verify for malformed or unsupported
	// encoded hashes. It is distinct from a false verification result: false
	// means "wrong password", this error means "not a hash we can check".
	ErrInvalidHashFormat = errors.New("password: invalid hash format")
)

package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"
)

// Default scrypt cost parameters, OWASP recommended minimum for scrypt.
const (
	DefaultN = 1 << 17 // CPU/memory cost
	DefaultR = 8       // block size
	DefaultP = 1       // parallelization
	keyLen   = 32
	saltLen  = 16
)

// Hash derives an scrypt hash of the password with a fresh random salt and
// returns the self-describing encoded string. The password is NFKC-normalized
// first so visually identical Unicode inputs hash identically.
func Hash(password string) (string, error) {
	normalized := norm.NFKC.String(password)

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", errors.Join(ErrHashFailed, err)
	}

	hash, err := scrypt.Key([]byte(normalized), salt, DefaultN, DefaultR, DefaultP, keyLen)
	if err != nil {
		return "", errors.Join(ErrHashFailed, err)
	}

	return fmt.Sprintf("$scrypt$n=%d,r=%d,p=%d$%s$%s",
		DefaultN, DefaultR, DefaultP,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether password matches the encoded hash. The cost
// parameters are taken from the encoded string, not from package defaults.
// A malformed or unsupported encoding yields ErrInvalidHashFormat.
func Verify(password, encodedHash string) (bool, error) {
	params, salt, want, err := parse(encodedHash)
	if err != nil {
		return false, err
	}

	normalized := norm.NFKC.String(password)

	got, err := scrypt.Key([]byte(normalized), salt, params.n, params.r, params.p, len(want))
	if err != nil {
		// scrypt rejects out-of-range cost parameters.
		return false, errors.Join(ErrInvalidHashFormat, err)
	}

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

type costParams struct {
	n, r, p int
}

// parse splits "$scrypt$n=...,r=...,p=...$salt$hash" into its components.
func parse(encodedHash string) (costParams, []byte, []byte, error) {
	var params costParams

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "scrypt" {
		return params, nil, nil, ErrInvalidHashFormat
	}

	if _, err := fmt.Sscanf(parts[2], "n=%d,r=%d,p=%d", &params.n, &params.r, &params.p); err != nil {
		return params, nil, nil, errors.Join(ErrInvalidHashFormat, err)
	}
	if params.n < 2 || params.r < 1 || params.p < 1 {
		return params, nil, nil, ErrInvalidHashFormat
	}

	salt, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return params, nil, nil, errors.Join(ErrInvalidHashFormat, err)
	}
	hash, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, errors.Join(ErrInvalidHashFormat, err)
	}
	if len(salt) == 0 || len(hash) == 0 {
		return params, nil, nil, ErrInvalidHashFormat
	}

	return params, salt, hash, nil
}

// Package password provides one-way password hashing with scrypt.
//
// Hashes follow the OWASP baseline (N=2^17, r=8, p=1, 32-byte key) with a
// fresh 16-byte random salt per call, so hashing the same password twice
// always produces different strings. Passwords are NFKC-normalized before
// hashing so Unicode variants of the same password verify consistently.
//
// The encoded form is self-describing:
//
//	$scrypt$n=131072,r=8,p=1$<salt-base64>$<hash-base64>
//
// Cost parameters are read back from the encoded string during verification,
// so they can be raised later without invalidating existing hashes.
package password

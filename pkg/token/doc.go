// Package token implements the compact token formats used by the authentication
// core: authenticated encryption for confidential payloads (OAuth state, user
// sessions) and HMAC signing for integrity-only payloads (email verification,
// password reset links).
//
// Both formats embed issued-at and expiry timestamps, so a token is verifiable
// without any server-side state. Expiry is enforced inside Decrypt/Verify and
// reported with the same error as a tampered token; callers cannot distinguish
// the two cases.
//
// The secret is a base64-encoded 32-byte key (openssl rand -base64 32). The raw
// key is never used directly: separate encryption and signing keys are derived
// from it with HKDF-SHA256, so the two token families cannot be confused for
// each other.
//
// # Usage
//
//	type StatePayload struct {
//	    State      string `json:"state"`
//	    RedirectTo string `json:"redirect_to"`
//	}
//
//	tok, err := token.Encrypt(StatePayload{...}, secret, 10*time.Minute)
//	if err != nil {
//	    return err
//	}
//
//	payload, err := token.Decrypt[StatePayload](tok, secret)
//	if errors.Is(err, token.ErrDecryptFailed) {
//	    // expired, tampered, or wrong key - intentionally indistinguishable
//	}
package token

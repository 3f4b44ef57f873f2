// Package auth implements a stateless authentication core for embedding in a
// host web application. It issues, validates, and expires encrypted session
// and OAuth-state tokens, and orchestrates two identity flows: federated OAuth
// sign-in with PKCE, and local email/password sign-in with email verification
// and password reset.
//
// All state between HTTP round-trips lives inside encrypted or signed tokens
// handed to the client; there is no server-side session table. The host
// supplies transport (SessionStorage, typically cookies) and persistence
// (callbacks on the credential provider config); the core owns protocol
// correctness: CSRF-safe OAuth state, token expiry, password hashing, and the
// reset-token binding check.
//
// # Composition
//
// The host builds a Service once at startup, generic over its own context
// type C (whatever its transport needs to read and write tokens):
//
//	svc, err := auth.New(cfg,
//	    userStorage,  // SessionStorage[C] for the user session token
//	    stateStorage, // SessionStorage[C] for the short-lived OAuth state token
//	    []auth.Provider{googleProvider, credentialProvider},
//	)
//
// UserSession returns (nil, nil) for anonymous requests; an expired or
// tampered session token surfaces as a decrypt error so the host can clear
// the stored token.
//
// For net/http hosts the package ships a cookie-backed SessionStorage
// (NewCookieStorage) and a sliding session-extension middleware
// (ExtendSessionMiddleware); other transports implement SessionStorage
// themselves.
//
// # Error surfacing
//
// Two strategies coexist on purpose. Failures during OAuth initiation and
// completion are returned as typed errors: they indicate infrastructure or
// integration problems the host developer must handle. Failures while a user
// follows an emailed verification or reset link are routine (expired link,
// reused token) and are converted into success results whose redirect target
// carries an error=<code> query parameter, so a stale link degrades to a
// normal page render instead of a 500.
package auth

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin accounts, sessions and token utilities.

# Admin Accounts

Admins live in the admin table with bcrypt password hashes:

	admins := auth.NewAdmins(conn, db.SQLite)
	admin, err := admins.Create(ctx, "editor@example.com", "secret1", "Editora")
	admin, err = admins.Authenticate(ctx, email, password)

Unknown emails and wrong passwords both return ErrInvalidCredentials.
Passwords shorter than MinPasswordLength are rejected with ErrWeakPassword.

# Sessions

Sessions keep the signed-in admin id in an encrypted gorilla/sessions
cookie. Signing and encryption keys are derived from SESSION_SECRET:

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SecureCookies)
	err := sessions.Login(w, r, admin.ID)
	id, ok := sessions.AdminID(r)

The admin middleware loads the account and places it in the request
context; handlers read it back with AdminFromContext.

# Google Sign-In

Google runs the OAuth2 authorization code flow and returns the account's
verified email. Only emails that already belong to an admin may sign in.
BeginState and CheckState guard the callback against forged requests.

# Keys and Tokens

	key := auth.DeriveKey(secret, "vote-cookie")  // 32-byte purpose key
	token, err := auth.GenerateToken()            // URL-safe random token

# IP Hashing

For privacy-preserving vote logs:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth

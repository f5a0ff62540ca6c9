// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

An optional dotenv file (default ".env", flag -env) is loaded first.
Variables already present in the environment win over the file.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (default: file:newsdesk.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSecret: Secret for admin session and vote cookies (required)
  - SecureCookies: Mark cookies HTTPS-only
  - PublicURL: Base URL used in share links, local upload URLs and as the
    only origin allowed credentialed CORS requests
  - BlobBackend: local or s3 (default: local)
  - UploadDir: Directory for the local blob backend (default: uploads)
  - S3Bucket, S3Region: S3 blob backend settings
  - RedisAddr: Redis address; when set, change notifications fan out
    across instances
  - GoogleClientID, GoogleClientSecret, GoogleRedirectURL: Google sign-in

# CLI Flags

	-env              Dotenv file
	-p                Server port
	-d                Database URL
	-t                Database type
	-public-url       Public base URL
	-redis            Redis address
	-session-secret   Session secret

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	PUBLIC_URL     → -public-url
	REDIS_ADDR     → -redis
	SESSION_SECRET → -session-secret

SECURE_COOKIES, BLOB_BACKEND, UPLOAD_DIR, S3_BUCKET, S3_REGION,
GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL are read
from the environment only.

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - SESSION_SECRET is missing
  - PORT or SECURE_COOKIES do not parse
  - BLOB_BACKEND is unknown, or s3 without S3_BUCKET
*/
package cliparse

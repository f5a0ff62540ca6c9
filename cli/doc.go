// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cli implements newsdeskctl, the operator command line.
//
//	newsdeskctl create-admin --email editor@example.com --password ... --name Editor
//	newsdeskctl seed -f seed.yaml
//	newsdeskctl slugify "Título de la noticia"
//	newsdeskctl vote --poll <id> --candidate <id> --ledger votes.json
//
// Every command takes --db and --db-type (or DATABASE_URL and
// DATABASE_TYPE) and opens the same database the server uses.
// --redis (or REDIS_ADDR) publishes changes on the servers' channel;
// without it they are announced only inside this process.
package cli

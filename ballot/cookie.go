// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
)

// CookiePrefix starts the name of every vote cookie. Each poll gets its
// own cookie, so the number of polls a browser votes in never runs into
// the size limit of a single cookie.
const CookiePrefix = "dm_media_voted_polls_"

const cookieMaxAge = 365 * 24 * time.Hour

// CookieName returns the name of the cookie remembering the vote in pollID.
func CookieName(pollID string) string {
	sum := sha256.Sum256([]byte(pollID))
	return CookiePrefix + hex.EncodeToString(sum[:8])
}

// cookieVote is the signed payload of one vote cookie.
type cookieVote struct {
	Poll      string `json:"p"`
	Candidate string `json:"c"`
}

// CookieCodec signs and verifies vote-memory cookies.
type CookieCodec struct {
	sc     *securecookie.SecureCookie
	secure bool
}

// NewCookieCodec returns a codec signing with hashKey. Pass secure for
// HTTPS-only cookies.
func NewCookieCodec(hashKey []byte, secure bool) *CookieCodec {
	sc := securecookie.New(hashKey, nil)
	sc.MaxAge(int(cookieMaxAge.Seconds()))
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &CookieCodec{sc: sc, secure: secure}
}

// Ledger loads the request's vote memory. Missing or tampered cookies
// read as no vote for their poll. Recorded votes are written back through
// w, so Record must be called before the response body.
func (c *CookieCodec) Ledger(w http.ResponseWriter, r *http.Request) *CookieLedger {
	votes := Memory{}
	for _, ck := range r.Cookies() {
		if !strings.HasPrefix(ck.Name, CookiePrefix) {
			continue
		}
		var v cookieVote
		if err := c.sc.Decode(ck.Name, ck.Value, &v); err != nil {
			slog.Warn("ignoring invalid vote cookie", "cookie", ck.Name, "error", err)
			continue
		}
		// A valid signature under another poll's name is a copied cookie
		if CookieName(v.Poll) != ck.Name {
			slog.Warn("ignoring misplaced vote cookie", "cookie", ck.Name)
			continue
		}
		votes.Record(v.Poll, v.Candidate)
	}
	return &CookieLedger{codec: c, votes: votes, w: w}
}

// CookieLedger is a per-request Ledger backed by signed cookies.
type CookieLedger struct {
	codec *CookieCodec
	votes Memory
	w     http.ResponseWriter
}

func (l *CookieLedger) VotedFor(pollID string) (string, bool) {
	return l.votes.VotedFor(pollID)
}

// Votes returns a copy of every recorded vote.
func (l *CookieLedger) Votes() map[string]string {
	out := make(map[string]string, len(l.votes))
	for k, v := range l.votes {
		out[k] = v
	}
	return out
}

func (l *CookieLedger) Record(pollID, candidateID string) error {
	name := CookieName(pollID)
	value, err := l.codec.sc.Encode(name, cookieVote{Poll: pollID, Candidate: candidateID})
	if err != nil {
		return fmt.Errorf("encode vote cookie: %w", err)
	}
	if err := l.votes.Record(pollID, candidateID); err != nil {
		return err
	}
	http.SetCookie(l.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   l.codec.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

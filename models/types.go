// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Collection names in the document store
const (
	CollectionNews        = "noticias"
	CollectionPolls       = "encuestas"
	CollectionSponsors    = "patrocinadores"
	CollectionAds         = "banners"
	CollectionConfig      = "configuracion"
	CollectionSubscribers = "suscriptores"
)

// Ad slot size constants
const (
	AdSizeLeaderboard = "leaderboard"
	AdSizeSidebar     = "sidebar"
	AdSizeSponsored   = "sponsored"
)

// FallbackImageURL replaces missing article and candidate images
const FallbackImageURL = "https://picsum.photos/seed/fallback/800/450?blur=2"

// ValidAdSize reports whether size is one of the fixed ad slot sizes.
func ValidAdSize(size string) bool {
	switch size {
	case AdSizeLeaderboard, AdSizeSidebar, AdSizeSponsored:
		return true
	}
	return false
}

// Timestamp is a UTC instant stored as a fixed-width string so that stored
// documents sort chronologically by plain string comparison.
type Timestamp struct {
	time.Time
}

const timestampLayout = "2006-01-02T15:04:05.000Z"

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Millisecond)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(timestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(timestampLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
	}
	t.Time = parsed.UTC()
	return nil
}

// Domain types

type Article struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content,omitempty"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	PublishedAt Timestamp `json:"publishedAt"`
	Date        string    `json:"date"` // display string, e.g. "15 de Mayo, 2024"
	ImageURL    string    `json:"imageUrl"`
	IsViral     bool      `json:"isViral"`
}

func (a *Article) SetID(id string) { a.ID = id }

// ArticlePatch is a partial article update. Nil fields are left untouched.
type ArticlePatch struct {
	Title       *string    `json:"title,omitempty"`
	Slug        *string    `json:"slug,omitempty"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Content     *string    `json:"content,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Author      *string    `json:"author,omitempty"`
	PublishedAt *Timestamp `json:"publishedAt,omitempty"`
	Date        *string    `json:"date,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	IsViral     *bool      `json:"isViral,omitempty"`
}

type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Party    string `json:"party,omitempty"`
	PhotoURL string `json:"photoUrl"`
	Votes    int    `json:"votes"`
}

type Poll struct {
	ID          string      `json:"id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	ClosingDate string      `json:"closingDate"`
	IsActive    bool        `json:"isActive"`
	Candidates  []Candidate `json:"candidates"`
}

func (p *Poll) SetID(id string) { p.ID = id }

// PollPatch is a partial poll update. Candidate vote counts supplied here
// are ignored; votes only change through the vote operation.
type PollPatch struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	ClosingDate *string      `json:"closingDate,omitempty"`
	IsActive    *bool        `json:"isActive,omitempty"`
	Candidates  *[]Candidate `json:"candidates,omitempty"`
}

type Sponsor struct {
	ID       string `json:"id,omitempty"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link,omitempty"`
	IsActive bool   `json:"isActive"`
}

func (s *Sponsor) SetID(id string) { s.ID = id }

type SponsorPatch struct {
	ImageURL *string `json:"imageUrl,omitempty"`
	Link     *string `json:"link,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

type AdSlot struct {
	ID       string `json:"id,omitempty"`
	Size     string `json:"size"`
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl,omitempty"`
	Link     string `json:"link,omitempty"`
}

func (a *AdSlot) SetID(id string) { a.ID = id }

type AdSlotPatch struct {
	Size     *string `json:"size,omitempty"`
	Label    *string `json:"label,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Link     *string `json:"link,omitempty"`
}

type Subscriber struct {
	ID           string    `json:"id,omitempty"`
	Email        string    `json:"email"`
	SubscribedAt Timestamp `json:"subscribedAt"`
}

func (s *Subscriber) SetID(id string) { s.ID = id }

// Request types

type VoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscriptionStatus answers GET /admin/subscribers/check.
type SubscriptionStatus struct {
	Email      string `json:"email"`
	Subscribed bool   `json:"subscribed"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Response types

type CreatedResponse struct {
	ID string `json:"id"`
}

type ArticleView struct {
	Article
	ShareURL string `json:"shareUrl"`
}

type CandidateTally struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int    `json:"votes"`
	VotesLabel  string `json:"votes_label"`
	Percentage  int    `json:"percentage"`
	Leader      bool   `json:"leader"`
}

type PollTally struct {
	PollID     string           `json:"poll_id"`
	TotalVotes int              `json:"total_votes"`
	TotalLabel string           `json:"total_label"`
	Candidates []CandidateTally `json:"candidates"`
}

type PollView struct {
	Poll
	Tally    PollTally `json:"tally"`
	VotedFor string    `json:"votedFor,omitempty"`
}

type VoteResponse struct {
	PollID      string `json:"poll_id"`
	CandidateID string `json:"candidate_id"`
	Message     string `json:"message"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type CategoryView struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// LiveFrame is one snapshot pushed over a live subscription socket.
type LiveFrame struct {
	Collection string `json:"collection"`
	ID         string `json:"id,omitempty"`
	Documents  any    `json:"documents"`
}

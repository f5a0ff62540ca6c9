// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/newsdesk/auth"
	"github.com/danielhkuo/newsdesk/ballot"
	"github.com/danielhkuo/newsdesk/cliparse"
	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/portal"
)

type VotingHandler struct {
	svc     *portal.Service
	ballots *ballot.CookieCodec
	cfg     cliparse.Config
}

func NewVotingHandler(svc *portal.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, ballots: newBallotCodec(cfg), cfg: cfg}
}

// newBallotCodec signs vote cookies with a key derived from the session
// secret, so every handler built from cfg reads the same cookies.
func newBallotCodec(cfg cliparse.Config) *ballot.CookieCodec {
	return ballot.NewCookieCodec(auth.DeriveKey(cfg.SessionSecret, "vote-cookie"), cfg.SecureCookies)
}

// Vote handles POST /polls/{id}/vote
// One vote per poll per browser, remembered in a signed cookie.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.CandidateID = strings.TrimSpace(req.CandidateID)
	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	ledger := h.ballots.Ledger(w, r)
	err := ballot.Cast(r.Context(), ledger, h.svc, pollID, req.CandidateID)
	if errors.Is(err, ballot.ErrAlreadyVoted) {
		middleware.ErrorResponse(w, http.StatusConflict, "You already voted in this poll")
		return
	}
	if err != nil {
		writeServiceError(w, err, "Poll not found")
		return
	}

	slog.Info("vote recorded",
		"poll_id", pollID,
		"candidate_id", req.CandidateID,
		"client", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret),
	)

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		PollID:      pollID,
		CandidateID: req.CandidateID,
		Message:     "Vote recorded",
	})
}

// MyVotes handles GET /polls/my-votes
// Returns poll id -> candidate id for this browser.
func (h *VotingHandler) MyVotes(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.ballots.Ledger(w, r).Votes())
}

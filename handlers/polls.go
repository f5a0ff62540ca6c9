// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/newsdesk/ballot"
	"github.com/danielhkuo/newsdesk/cliparse"
	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/portal"
)

type PollHandler struct {
	svc     *portal.Service
	ballots *ballot.CookieCodec
	cfg     cliparse.Config
}

func NewPollHandler(svc *portal.Service, cfg cliparse.Config) *PollHandler {
	return &PollHandler{svc: svc, ballots: newBallotCodec(cfg), cfg: cfg}
}

func (h *PollHandler) view(p models.Poll, l ballot.Ledger) models.PollView {
	for i := range p.Candidates {
		if p.Candidates[i].PhotoURL == "" {
			p.Candidates[i].PhotoURL = models.FallbackImageURL
		}
	}
	return models.PollView{
		Poll:     p,
		Tally:    ComputeTally(p),
		VotedFor: ballot.StateOf(l, p.ID).CandidateID,
	}
}

// List handles GET /polls?active=true
// Each poll carries its tally and this browser's vote, if any.
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	polls, err := h.svc.ListPolls(r.Context())
	if err != nil {
		writeServiceError(w, err, "Poll not found")
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"
	ledger := h.ballots.Ledger(w, r)
	views := make([]models.PollView, 0, len(polls))
	for _, p := range polls {
		if activeOnly && !p.IsActive {
			continue
		}
		views = append(views, h.view(p, ledger))
	}
	middleware.JSONResponse(w, http.StatusOK, views)
}

// Get handles GET /polls/{id}
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	poll, err := h.svc.GetPoll(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "Poll not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.view(poll, h.ballots.Ledger(w, r)))
}

// Create handles POST /admin/polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.Poll
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.svc.CreatePoll(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Poll not found")
		return
	}

	slog.Info("poll created", "poll_id", id, "candidates", len(req.Candidates))
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// Update handles PUT /admin/polls/{id}
// Vote counts cannot be edited; existing candidates keep theirs.
func (h *PollHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch models.PollPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.UpdatePoll(r.Context(), id, patch); err != nil {
		writeServiceError(w, err, "Poll not found")
		return
	}

	poll, err := h.svc.GetPoll(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Poll not found")
		return
	}

	slog.Info("poll updated", "poll_id", id, "active", poll.IsActive)
	middleware.JSONResponse(w, http.StatusOK, models.PollView{Poll: poll, Tally: ComputeTally(poll)})
}

// Delete handles DELETE /admin/polls/{id}
func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeletePoll(r.Context(), id); err != nil {
		writeServiceError(w, err, "Poll not found")
		return
	}

	slog.Info("poll deleted", "poll_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var ErrAlreadyVoted = errors.New("already voted in this poll")

// Ledger remembers, per client, the candidate chosen in each poll.
type Ledger interface {
	// VotedFor returns the candidate recorded for pollID, if any.
	VotedFor(pollID string) (candidateID string, ok bool)
	Record(pollID, candidateID string) error
}

// Voter applies one vote to the shared tally.
type Voter interface {
	Vote(ctx context.Context, pollID, candidateID string) error
}

// State is a client's position in a poll: NotVoted until a vote is
// accepted, then Voted for good.
type State struct {
	Voted       bool
	CandidateID string
}

func StateOf(l Ledger, pollID string) State {
	candidateID, ok := l.VotedFor(pollID)
	return State{Voted: ok, CandidateID: candidateID}
}

// Cast votes for candidateID unless the ledger already holds a vote for
// the poll, in which case nothing is sent and ErrAlreadyVoted is returned
// whatever the candidate. The vote is recorded only once the voter has
// accepted it. A counted vote is never reported as a failure: if the
// ledger cannot record it, the error is logged and Cast returns nil.
func Cast(ctx context.Context, l Ledger, v Voter, pollID, candidateID string) error {
	if prev, ok := l.VotedFor(pollID); ok {
		return fmt.Errorf("poll %s already voted for %s: %w", pollID, prev, ErrAlreadyVoted)
	}
	if err := v.Vote(ctx, pollID, candidateID); err != nil {
		return err
	}
	if err := l.Record(pollID, candidateID); err != nil {
		slog.Error("vote counted but not remembered",
			"poll_id", pollID,
			"candidate_id", candidateID,
			"error", err,
		)
	}
	return nil
}

// Memory is an in-process ledger.
type Memory map[string]string

func (m Memory) VotedFor(pollID string) (string, bool) {
	c, ok := m[pollID]
	return c, ok
}

func (m Memory) Record(pollID, candidateID string) error {
	if _, ok := m[pollID]; ok {
		return nil
	}
	m[pollID] = candidateID
	return nil
}

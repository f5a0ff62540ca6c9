// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/syncstore"
)

func (s *Service) ListPolls(ctx context.Context) ([]models.Poll, error) {
	return fetchAll[models.Poll](ctx, s, models.CollectionPolls)
}

func (s *Service) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	return fetchOne[models.Poll](ctx, s, models.CollectionPolls, id)
}

// CreatePoll stores a new poll. Every candidate starts at zero votes and
// gets an id when it has none.
func (s *Service) CreatePoll(ctx context.Context, p models.Poll) (string, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return "", invalid("title is required")
	}
	candidates, err := normalizeCandidates(p.Candidates, nil)
	if err != nil {
		return "", err
	}
	p.ID = ""
	p.Candidates = candidates

	id, err := s.store.Write(ctx, models.CollectionPolls, syncstore.NewID, p)
	if err != nil {
		return "", fmt.Errorf("create poll: %w", err)
	}
	return id, nil
}

// UpdatePoll merges patch into a poll. Vote counts in the patch are
// ignored: candidates that already exist keep their count and new ones
// start at zero.
func (s *Service) UpdatePoll(ctx context.Context, id string, patch models.PollPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return invalid("title cannot be empty")
	}

	err := s.docs.Mutate(ctx, models.CollectionPolls, id, func(current json.RawMessage) (any, error) {
		if current == nil {
			return nil, ErrNotFound
		}
		var p models.Poll
		if err := json.Unmarshal(current, &p); err != nil {
			return nil, err
		}
		if patch.Title != nil {
			p.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.ClosingDate != nil {
			p.ClosingDate = *patch.ClosingDate
		}
		if patch.IsActive != nil {
			p.IsActive = *patch.IsActive
		}
		if patch.Candidates != nil {
			candidates, err := normalizeCandidates(*patch.Candidates, p.Candidates)
			if err != nil {
				return nil, err
			}
			p.Candidates = candidates
		}
		p.ID = ""
		return p, nil
	})
	if err != nil {
		return mapNotFound(err, "update poll "+id)
	}
	return nil
}

func (s *Service) DeletePoll(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, models.CollectionPolls, id); err != nil {
		return fmt.Errorf("delete poll %s: %w", id, err)
	}
	return nil
}

// normalizeCandidates assigns missing ids and carries vote counts over
// from existing by candidate id.
func normalizeCandidates(in, existing []models.Candidate) ([]models.Candidate, error) {
	votes := make(map[string]int, len(existing))
	for _, c := range existing {
		votes[c.ID] = c.Votes
	}

	out := make([]models.Candidate, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, c := range in {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return nil, invalid("candidate name is required")
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if seen[c.ID] {
			return nil, invalid("duplicate candidate id %q", c.ID)
		}
		seen[c.ID] = true
		c.Votes = votes[c.ID]
		out = append(out, c)
	}
	return out, nil
}

// Vote adds exactly one vote to candidateID. The poll is read and
// written back in one transaction so concurrent votes are never lost.
func (s *Service) Vote(ctx context.Context, pollID, candidateID string) error {
	err := s.docs.Mutate(ctx, models.CollectionPolls, pollID, func(current json.RawMessage) (any, error) {
		if current == nil {
			return nil, ErrNotFound
		}
		var p models.Poll
		if err := json.Unmarshal(current, &p); err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, ErrPollClosed
		}
		for i := range p.Candidates {
			if p.Candidates[i].ID == candidateID {
				p.Candidates[i].Votes++
				p.ID = ""
				return p, nil
			}
		}
		return nil, ErrCandidateNotFound
	})
	if err != nil {
		return mapNotFound(err, "vote in poll "+pollID)
	}
	return nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/newsdesk/models"
)

// ComputeTally derives the displayed results of a poll from its stored
// vote counts. Candidate order is preserved.
func ComputeTally(poll models.Poll) models.PollTally {
	total := 0
	top := 0
	for _, c := range poll.Candidates {
		total += c.Votes
		if c.Votes > top {
			top = c.Votes
		}
	}

	tally := models.PollTally{
		PollID:     poll.ID,
		TotalVotes: total,
		TotalLabel: humanize.Comma(int64(total)),
		Candidates: make([]models.CandidateTally, len(poll.Candidates)),
	}
	for i, c := range poll.Candidates {
		tally.Candidates[i] = models.CandidateTally{
			CandidateID: c.ID,
			Name:        c.Name,
			Votes:       c.Votes,
			VotesLabel:  humanize.Comma(int64(c.Votes)),
			Percentage:  percentage(c.Votes, total),
			// Ties at the top all lead; nobody leads an empty poll
			Leader: total > 0 && c.Votes == top,
		}
	}
	return tally
}

// percentage rounds half away from zero; counts are never negative.
func percentage(votes, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/newsdesk/ballot"
)

// NewVoteCommand creates the vote command.
func NewVoteCommand(rootOpts *RootOptions) *cobra.Command {
	var pollID, candidateID, ledgerPath string

	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Cast a vote in a poll",
		Long: `Cast one vote for a candidate.

The ledger file remembers which polls this voter has voted in, the way a
browser cookie does for readers. A second vote in the same poll with the
same ledger is refused.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pollID == "" || candidateID == "" {
				return errors.New("--poll and --candidate are required")
			}

			ledger, err := ballot.OpenFileLedger(ledgerPath)
			if err != nil {
				return err
			}
			if prev, ok := ledger.VotedFor(pollID); ok {
				return fmt.Errorf("already voted for %s in poll %s: %w", prev, pollID, ballot.ErrAlreadyVoted)
			}

			b, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer b.Close()

			if err := ballot.Cast(cmd.Context(), ledger, b.portal, pollID, candidateID); err != nil {
				return err
			}

			poll, err := b.portal.GetPoll(cmd.Context(), pollID)
			if err != nil {
				return err
			}
			for _, c := range poll.Candidates {
				if c.ID == candidateID {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Voted for %s (%d votes)\n", c.Name, c.Votes)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pollID, "poll", "", "poll id")
	cmd.Flags().StringVar(&candidateID, "candidate", "", "candidate id")
	cmd.Flags().StringVar(&ledgerPath, "ledger", "newsdesk-votes.json", "vote ledger file")

	return cmd
}

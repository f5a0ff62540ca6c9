// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileLedger keeps vote memory in a JSON file, for command-line voters.
type FileLedger struct {
	path  string
	mu    sync.Mutex
	votes Memory
}

// OpenFileLedger reads path, treating a missing file as an empty ledger.
func OpenFileLedger(path string) (*FileLedger, error) {
	l := &FileLedger{path: path, votes: Memory{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &l.votes); err != nil {
			return nil, fmt.Errorf("parse ledger %s: %w", path, err)
		}
	}
	return l, nil
}

func (l *FileLedger) VotedFor(pollID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.votes.VotedFor(pollID)
}

func (l *FileLedger) Record(pollID, candidateID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.votes.Record(pollID, candidateID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(l.votes, "", "  ")
	if err != nil {
		return err
	}
	// Write then rename so a crash never leaves a truncated ledger.
	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".ledger-*")
	if err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

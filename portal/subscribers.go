// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/danielhkuo/newsdesk/docstore"
	"github.com/danielhkuo/newsdesk/models"
)

// normalizeEmail validates an address and returns it lower-cased.
func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return "", invalid("invalid email address")
	}
	return strings.ToLower(addr.Address), nil
}

// IsSubscribed reports whether email is on the newsletter list.
func (s *Service) IsSubscribed(ctx context.Context, email string) (bool, error) {
	addr, err := normalizeEmail(email)
	if err != nil {
		return false, err
	}
	_, err = s.docs.Get(ctx, models.CollectionSubscribers, addr)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check subscriber: %w", err)
	}
	return true, nil
}

// Subscribe adds email to the newsletter list. The address is the
// document id, so two concurrent sign-ups cannot both succeed.
func (s *Service) Subscribe(ctx context.Context, email string) error {
	addr, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	err = s.docs.Mutate(ctx, models.CollectionSubscribers, addr, func(current json.RawMessage) (any, error) {
		if current != nil {
			return nil, ErrAlreadySubscribed
		}
		return models.Subscriber{
			Email:        addr,
			SubscribedAt: models.NewTimestamp(s.now()),
		}, nil
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", addr, err)
	}
	return nil
}

func (s *Service) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	return fetchAll[models.Subscriber](ctx, s, models.CollectionSubscribers)
}

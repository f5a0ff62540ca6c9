// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package portal

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/syncstore"
)

// ListSponsors returns sponsors in insertion order, only active ones when
// activeOnly is set.
func (s *Service) ListSponsors(ctx context.Context, activeOnly bool) ([]models.Sponsor, error) {
	sponsors, err := fetchAll[models.Sponsor](ctx, s, models.CollectionSponsors)
	if err != nil || !activeOnly {
		return sponsors, err
	}
	active := sponsors[:0]
	for _, sp := range sponsors {
		if sp.IsActive {
			active = append(active, sp)
		}
	}
	return active, nil
}

func (s *Service) CreateSponsor(ctx context.Context, sp models.Sponsor) (string, error) {
	if strings.TrimSpace(sp.ImageURL) == "" {
		return "", invalid("imageUrl is required")
	}
	sp.ID = ""
	id, err := s.store.Write(ctx, models.CollectionSponsors, syncstore.NewID, sp)
	if err != nil {
		return "", fmt.Errorf("create sponsor: %w", err)
	}
	return id, nil
}

func (s *Service) UpdateSponsor(ctx context.Context, id string, patch models.SponsorPatch) error {
	if patch.ImageURL != nil && strings.TrimSpace(*patch.ImageURL) == "" {
		return invalid("imageUrl cannot be empty")
	}
	if _, err := s.store.Write(ctx, models.CollectionSponsors, id, patch); err != nil {
		return mapNotFound(err, "update sponsor "+id)
	}
	return nil
}

func (s *Service) DeleteSponsor(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, models.CollectionSponsors, id); err != nil {
		return fmt.Errorf("delete sponsor %s: %w", id, err)
	}
	return nil
}

func (s *Service) ListAds(ctx context.Context) ([]models.AdSlot, error) {
	return fetchAll[models.AdSlot](ctx, s, models.CollectionAds)
}

func (s *Service) CreateAd(ctx context.Context, ad models.AdSlot) (string, error) {
	if !models.ValidAdSize(ad.Size) {
		return "", invalid("size must be leaderboard, sidebar or sponsored")
	}
	ad.ID = ""
	id, err := s.store.Write(ctx, models.CollectionAds, syncstore.NewID, ad)
	if err != nil {
		return "", fmt.Errorf("create ad: %w", err)
	}
	return id, nil
}

func (s *Service) UpdateAd(ctx context.Context, id string, patch models.AdSlotPatch) error {
	if patch.Size != nil && !models.ValidAdSize(*patch.Size) {
		return invalid("size must be leaderboard, sidebar or sponsored")
	}
	if _, err := s.store.Write(ctx, models.CollectionAds, id, patch); err != nil {
		return mapNotFound(err, "update ad "+id)
	}
	return nil
}

func (s *Service) DeleteAd(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, models.CollectionAds, id); err != nil {
		return fmt.Errorf("delete ad %s: %w", id, err)
	}
	return nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/newsdesk/docstore"
	"github.com/danielhkuo/newsdesk/models"
)

// loadConfig reads a config document over its defaults, so fields the
// stored document lacks keep their default value.
func loadConfig[T any](ctx context.Context, s *Service, key string, def T) (T, error) {
	doc, err := s.docs.Get(ctx, models.CollectionConfig, key)
	if errors.Is(err, docstore.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("load config %s: %w", key, err)
	}
	cfg := def
	if err := doc.Decode(&cfg); err != nil {
		return def, err
	}
	return cfg, nil
}

// saveConfig applies patch to the stored document in one transaction.
func saveConfig[T, P any](ctx context.Context, s *Service, key string, def T, patch P, merge func(T, P) T) (T, error) {
	var saved T
	err := s.docs.Mutate(ctx, models.CollectionConfig, key, func(current json.RawMessage) (any, error) {
		cfg := def
		if current != nil {
			if err := json.Unmarshal(current, &cfg); err != nil {
				return nil, err
			}
		}
		saved = merge(cfg, patch)
		return saved, nil
	})
	if err != nil {
		return saved, fmt.Errorf("save config %s: %w", key, err)
	}
	return saved, nil
}

func (s *Service) PopupConfig(ctx context.Context) (models.PopupConfig, error) {
	return loadConfig(ctx, s, models.ConfigPopup, models.DefaultPopupConfig())
}

func (s *Service) SavePopupConfig(ctx context.Context, p models.PopupPatch) (models.PopupConfig, error) {
	return saveConfig(ctx, s, models.ConfigPopup, models.DefaultPopupConfig(), p, models.PopupConfig.Merge)
}

func (s *Service) LargePopupConfig(ctx context.Context) (models.LargePopupConfig, error) {
	return loadConfig(ctx, s, models.ConfigLargePopup, models.DefaultLargePopupConfig())
}

func (s *Service) SaveLargePopupConfig(ctx context.Context, p models.LargePopupPatch) (models.LargePopupConfig, error) {
	return saveConfig(ctx, s, models.ConfigLargePopup, models.DefaultLargePopupConfig(), p, models.LargePopupConfig.Merge)
}

func (s *Service) ActivityConfig(ctx context.Context) (models.ActivityConfig, error) {
	return loadConfig(ctx, s, models.ConfigActivity, models.DefaultActivityConfig())
}

func (s *Service) SaveActivityConfig(ctx context.Context, p models.ActivityPatch) (models.ActivityConfig, error) {
	return saveConfig(ctx, s, models.ConfigActivity, models.DefaultActivityConfig(), p, models.ActivityConfig.Merge)
}

func (s *Service) FloatingBannerConfig(ctx context.Context) (models.FloatingBannerConfig, error) {
	return loadConfig(ctx, s, models.ConfigFloatingBanner, models.DefaultFloatingBannerConfig())
}

func (s *Service) SaveFloatingBannerConfig(ctx context.Context, p models.FloatingBannerPatch) (models.FloatingBannerConfig, error) {
	return saveConfig(ctx, s, models.ConfigFloatingBanner, models.DefaultFloatingBannerConfig(), p, models.FloatingBannerConfig.Merge)
}

func (s *Service) PollBannerConfig(ctx context.Context) (models.PollBannerConfig, error) {
	return loadConfig(ctx, s, models.ConfigPollBanner, models.DefaultPollBannerConfig())
}

func (s *Service) SavePollBannerConfig(ctx context.Context, p models.PollBannerPatch) (models.PollBannerConfig, error) {
	return saveConfig(ctx, s, models.ConfigPollBanner, models.DefaultPollBannerConfig(), p, models.PollBannerConfig.Merge)
}

// Config returns the config document stored under key.
func (s *Service) Config(ctx context.Context, key string) (any, error) {
	switch key {
	case models.ConfigPopup:
		return s.PopupConfig(ctx)
	case models.ConfigLargePopup:
		return s.LargePopupConfig(ctx)
	case models.ConfigActivity:
		return s.ActivityConfig(ctx)
	case models.ConfigFloatingBanner:
		return s.FloatingBannerConfig(ctx)
	case models.ConfigPollBanner:
		return s.PollBannerConfig(ctx)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownConfig, key)
}

// SaveConfig decodes body as the patch type of key and applies it.
func (s *Service) SaveConfig(ctx context.Context, key string, body []byte) (any, error) {
	switch key {
	case models.ConfigPopup:
		var p models.PopupPatch
		if err := decodePatch(body, &p); err != nil {
			return nil, err
		}
		return s.SavePopupConfig(ctx, p)
	case models.ConfigLargePopup:
		var p models.LargePopupPatch
		if err := decodePatch(body, &p); err != nil {
			return nil, err
		}
		return s.SaveLargePopupConfig(ctx, p)
	case models.ConfigActivity:
		var p models.ActivityPatch
		if err := decodePatch(body, &p); err != nil {
			return nil, err
		}
		return s.SaveActivityConfig(ctx, p)
	case models.ConfigFloatingBanner:
		var p models.FloatingBannerPatch
		if err := decodePatch(body, &p); err != nil {
			return nil, err
		}
		return s.SaveFloatingBannerConfig(ctx, p)
	case models.ConfigPollBanner:
		var p models.PollBannerPatch
		if err := decodePatch(body, &p); err != nil {
			return nil, err
		}
		return s.SavePollBannerConfig(ctx, p)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownConfig, key)
}

func decodePatch(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return invalid("malformed config patch: %v", err)
	}
	return nil
}

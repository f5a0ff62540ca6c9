// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/portal"
)

// SeedFile is the YAML layout read by seed.
type SeedFile struct {
	Articles []SeedArticle            `yaml:"articles"`
	Polls    []SeedPoll               `yaml:"polls"`
	Sponsors []SeedSponsor            `yaml:"sponsors"`
	Ads      []SeedAd                 `yaml:"ads"`
	Configs  map[string]map[string]any `yaml:"configs"`
}

type SeedArticle struct {
	Title       string    `yaml:"title"`
	Category    string    `yaml:"category"`
	Excerpt     string    `yaml:"excerpt"`
	Content     string    `yaml:"content"`
	Author      string    `yaml:"author"`
	ImageURL    string    `yaml:"imageUrl"`
	IsViral     bool      `yaml:"isViral"`
	PublishedAt time.Time `yaml:"publishedAt"`
}

type SeedCandidate struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Party    string `yaml:"party"`
	PhotoURL string `yaml:"photoUrl"`
}

type SeedPoll struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	ClosingDate string          `yaml:"closingDate"`
	IsActive    bool            `yaml:"isActive"`
	Candidates  []SeedCandidate `yaml:"candidates"`
}

type SeedSponsor struct {
	ImageURL string `yaml:"imageUrl"`
	Link     string `yaml:"link"`
	IsActive bool   `yaml:"isActive"`
}

type SeedAd struct {
	Size     string `yaml:"size"`
	Label    string `yaml:"label"`
	ImageURL string `yaml:"imageUrl"`
	Link     string `yaml:"link"`
}

// SeedResult counts what a seed run created.
type SeedResult struct {
	Articles int
	Polls    int
	Sponsors int
	Ads      int
	Configs  int
}

// LoadSeedFile reads and parses a seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &f, nil
}

// Apply creates every item in f through svc. It stops at the first
// failure; items created before it stay.
func (f *SeedFile) Apply(ctx context.Context, svc *portal.Service) (SeedResult, error) {
	var res SeedResult

	for _, a := range f.Articles {
		article := models.Article{
			Title:    a.Title,
			Category: a.Category,
			Excerpt:  a.Excerpt,
			Content:  a.Content,
			Author:   a.Author,
			ImageURL: a.ImageURL,
			IsViral:  a.IsViral,
		}
		if !a.PublishedAt.IsZero() {
			article.PublishedAt = models.NewTimestamp(a.PublishedAt)
		}
		if _, err := svc.CreateArticle(ctx, article); err != nil {
			return res, fmt.Errorf("article %q: %w", a.Title, err)
		}
		res.Articles++
	}

	for _, p := range f.Polls {
		poll := models.Poll{
			Title:       p.Title,
			Description: p.Description,
			ClosingDate: p.ClosingDate,
			IsActive:    p.IsActive,
		}
		for _, c := range p.Candidates {
			poll.Candidates = append(poll.Candidates, models.Candidate{
				ID:       c.ID,
				Name:     c.Name,
				Party:    c.Party,
				PhotoURL: c.PhotoURL,
			})
		}
		if _, err := svc.CreatePoll(ctx, poll); err != nil {
			return res, fmt.Errorf("poll %q: %w", p.Title, err)
		}
		res.Polls++
	}

	for _, s := range f.Sponsors {
		if _, err := svc.CreateSponsor(ctx, models.Sponsor{ImageURL: s.ImageURL, Link: s.Link, IsActive: s.IsActive}); err != nil {
			return res, fmt.Errorf("sponsor %q: %w", s.ImageURL, err)
		}
		res.Sponsors++
	}

	for _, a := range f.Ads {
		if _, err := svc.CreateAd(ctx, models.AdSlot{Size: a.Size, Label: a.Label, ImageURL: a.ImageURL, Link: a.Link}); err != nil {
			return res, fmt.Errorf("ad %q: %w", a.Label, err)
		}
		res.Ads++
	}

	// Stable order keeps failures reproducible
	keys := make([]string, 0, len(f.Configs))
	for k := range f.Configs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		body, err := json.Marshal(f.Configs[key])
		if err != nil {
			return res, fmt.Errorf("config %s: %w", key, err)
		}
		if _, err := svc.SaveConfig(ctx, key, body); err != nil {
			return res, fmt.Errorf("config %s: %w", key, err)
		}
		res.Configs++
	}

	return res, nil
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed -f <file.yaml>",
		Short: "Load articles, polls, placements and configs from YAML",
		Long: `Load content from a YAML seed file.

Articles get their slug from the title. Poll candidates always start at
zero votes. Configs are merged over the stored document, key by key.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			f, err := LoadSeedFile(file)
			if err != nil {
				return err
			}

			b, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer b.Close()

			res, err := f.Apply(cmd.Context(), b.portal)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d article(s), %d poll(s), %d sponsor(s), %d ad(s), %d config(s)\n",
				res.Articles, res.Polls, res.Sponsors, res.Ads, res.Configs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file")

	return cmd
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Config document keys in the configuracion collection
const (
	ConfigPopup          = "popup"
	ConfigLargePopup     = "largePopup"
	ConfigActivity       = "activity"
	ConfigFloatingBanner = "floatingBanner"
	ConfigPollBanner     = "pollBanner"
)

// ConfigKeys lists every singleton config document.
var ConfigKeys = []string{
	ConfigPopup,
	ConfigLargePopup,
	ConfigActivity,
	ConfigFloatingBanner,
	ConfigPollBanner,
}

type PopupConfig struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ButtonText  string `json:"buttonText"`
	IsEnabled   bool   `json:"isEnabled"`
}

type PopupPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	ButtonText  *string `json:"buttonText,omitempty"`
	IsEnabled   *bool   `json:"isEnabled,omitempty"`
}

func (c PopupConfig) Merge(p PopupPatch) PopupConfig {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	if p.ButtonText != nil {
		c.ButtonText = *p.ButtonText
	}
	if p.IsEnabled != nil {
		c.IsEnabled = *p.IsEnabled
	}
	return c
}

type LargePopupConfig struct {
	PopupConfig
	Delay       int                    `json:"delay,omitempty"` // milliseconds before showing
	CategoryAds map[string]PopupConfig `json:"categoryAds,omitempty"`
}

// LargePopupPatch replaces category ads per category; a nil map value
// entry is not representable, so removal goes through RemoveCategories.
type LargePopupPatch struct {
	PopupPatch
	Delay            *int                   `json:"delay,omitempty"`
	CategoryAds      map[string]PopupConfig `json:"categoryAds,omitempty"`
	RemoveCategories []string               `json:"removeCategories,omitempty"`
}

func (c LargePopupConfig) Merge(p LargePopupPatch) LargePopupConfig {
	c.PopupConfig = c.PopupConfig.Merge(p.PopupPatch)
	if p.Delay != nil {
		c.Delay = *p.Delay
	}
	if len(p.CategoryAds) > 0 || len(p.RemoveCategories) > 0 {
		merged := make(map[string]PopupConfig, len(c.CategoryAds)+len(p.CategoryAds))
		for k, v := range c.CategoryAds {
			merged[k] = v
		}
		for k, v := range p.CategoryAds {
			merged[k] = v
		}
		for _, k := range p.RemoveCategories {
			delete(merged, k)
		}
		c.CategoryAds = merged
	}
	return c
}

// ForCategory returns the category override when one exists and is
// enabled, else the base popup.
func (c LargePopupConfig) ForCategory(category string) PopupConfig {
	if ad, ok := c.CategoryAds[category]; ok && ad.IsEnabled {
		return ad
	}
	return c.PopupConfig
}

type ActivityConfig struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	ExtraImages []string `json:"extraImages,omitempty"`
	Date        string   `json:"date"`
	Location    string   `json:"location"`
}

type ActivityPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	ExtraImages *[]string `json:"extraImages,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Location    *string   `json:"location,omitempty"`
}

func (c ActivityConfig) Merge(p ActivityPatch) ActivityConfig {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	if p.ExtraImages != nil {
		c.ExtraImages = append([]string(nil), (*p.ExtraImages)...)
	}
	if p.Date != nil {
		c.Date = *p.Date
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	return c
}

type Flyer struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Link        string `json:"link"`
	IsActive    bool   `json:"isActive"`
}

type FloatingBannerConfig struct {
	IsEnabled bool    `json:"isEnabled"`
	Flyers    []Flyer `json:"flyers"`
}

type FloatingBannerPatch struct {
	IsEnabled *bool    `json:"isEnabled,omitempty"`
	Flyers    *[]Flyer `json:"flyers,omitempty"`
}

func (c FloatingBannerConfig) Merge(p FloatingBannerPatch) FloatingBannerConfig {
	if p.IsEnabled != nil {
		c.IsEnabled = *p.IsEnabled
	}
	if p.Flyers != nil {
		c.Flyers = append([]Flyer(nil), (*p.Flyers)...)
	}
	return c
}

type PollBannerConfig struct {
	ImageURL  string `json:"imageUrl"`
	Link      string `json:"link"`
	IsEnabled bool   `json:"isEnabled"`
}

type PollBannerPatch struct {
	ImageURL  *string `json:"imageUrl,omitempty"`
	Link      *string `json:"link,omitempty"`
	IsEnabled *bool   `json:"isEnabled,omitempty"`
}

func (c PollBannerConfig) Merge(p PollBannerPatch) PollBannerConfig {
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	if p.Link != nil {
		c.Link = *p.Link
	}
	if p.IsEnabled != nil {
		c.IsEnabled = *p.IsEnabled
	}
	return c
}

// Defaults used until an admin saves the document for the first time

func DefaultPopupConfig() PopupConfig {
	return PopupConfig{
		Title:       "Suscríbete a nuestro boletín",
		Description: "Recibe las noticias más calientes de RD directamente en tu bandeja de entrada cada mañana.",
		ButtonText:  "Suscribirme ahora",
		IsEnabled:   true,
	}
}

func DefaultLargePopupConfig() LargePopupConfig {
	return LargePopupConfig{
		PopupConfig: PopupConfig{
			Title:       "¡Anúnciate con nosotros!",
			Description: "Llega a miles de lectores dominicanos cada día. Tenemos los mejores espacios para tu marca.",
			ImageURL:    "https://picsum.photos/seed/ads-square/400/400",
			ButtonText:  "Contactar Ventas",
			IsEnabled:   true,
		},
		Delay: 10000,
	}
}

func DefaultActivityConfig() ActivityConfig {
	return ActivityConfig{
		ID:          "activity-1",
		Title:       "Gran Carnaval de Santo Domingo",
		Description: "Ven a disfrutar del desfile más colorido de la República Dominicana.",
		ImageURL:    "https://picsum.photos/seed/carnaval/1200/600",
		Date:        "25 de Febrero",
		Location:    "Av. George Washington (Malecón)",
	}
}

func DefaultFloatingBannerConfig() FloatingBannerConfig {
	return FloatingBannerConfig{IsEnabled: true, Flyers: []Flyer{}}
}

func DefaultPollBannerConfig() PollBannerConfig {
	return PollBannerConfig{
		ImageURL:  "https://picsum.photos/seed/poll-banner/1200/200",
		IsEnabled: true,
	}
}

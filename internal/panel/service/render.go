package service

import (
	"strings"

	"steam_search_backend/internal/steam/transport"
)

// LoadingPlaceholder is shown for every detail field until details arrive.
const LoadingPlaceholder = "Loading..."

// LayoutHints tell a host how to draw the search grid.
type LayoutHints struct {
	Columns           int    `json:"columns"`
	AspectRatio       string `json:"aspectRatio"`
	Fit               string `json:"fit"`
	SearchPlaceholder string `json:"searchPlaceholder"`
	Throttle          bool   `json:"throttle"`
	MinQueryLength    int    `json:"minQueryLength"`
}

// DefaultLayout is the grid used by the launcher.
func DefaultLayout() LayoutHints {
	return LayoutHints{
		Columns:           3,
		AspectRatio:       "16/9",
		Fit:               "fill",
		SearchPlaceholder: "Search games on Steam...",
		Throttle:          true,
		MinQueryLength:    transport.MinQueryLength,
	}
}

// MetadataEntry is one row of the detail sidebar. Separator rows carry no
// title; link rows carry a Target.
type MetadataEntry struct {
	Kind   string `json:"kind"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Target string `json:"target,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

const (
	entryLabel     = "label"
	entrySeparator = "separator"
	entryLink      = "link"
)

// Action is something the user can do from a detail view.
type Action struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// RenderDetailMarkdown renders the body of a detail view.
func RenderDetailMarkdown(view *DetailView) string {
	if view == nil {
		return ""
	}

	description := LoadingPlaceholder
	if view.Details != nil && view.Details.Description != "" {
		description = view.Details.Description
	}

	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(view.Name)
	b.WriteString("\n![Header](")
	b.WriteString(view.Image)
	b.WriteString(")\n\n### Description\n")
	b.WriteString(description)
	b.WriteString("\n")

	if view.Details != nil && view.Details.PCRequirements != "" {
		b.WriteString("\n---\n### Minimum System Requirements\n")
		b.WriteString(view.Details.PCRequirements)
		b.WriteString("\n")
	}
	return b.String()
}

// Metadata returns the sidebar rows of a detail view.
func Metadata(view *DetailView) []MetadataEntry {
	if view == nil {
		return nil
	}

	field := func(get func(*transport.GameDetails) string) string {
		if view.Details == nil {
			return LoadingPlaceholder
		}
		if v := get(view.Details); v != "" {
			return v
		}
		return LoadingPlaceholder
	}
	links := transport.LinksFor(view.AppID)

	return []MetadataEntry{
		{Kind: entryLabel, Title: "Price", Text: view.Price},
		{Kind: entryLabel, Title: "Release Date", Text: field(func(d *transport.GameDetails) string { return d.ReleaseDate })},
		{Kind: entrySeparator},
		{Kind: entryLabel, Title: "Developer", Text: field(func(d *transport.GameDetails) string { return d.Developer })},
		{Kind: entryLabel, Title: "Publisher", Text: field(func(d *transport.GameDetails) string { return d.Publisher })},
		{Kind: entryLabel, Title: "Genres", Text: field(func(d *transport.GameDetails) string { return d.Genres })},
		{Kind: entrySeparator},
		{Kind: entryLabel, Title: "Community Score", Text: field(func(d *transport.GameDetails) string { return d.Reviews }), Icon: "star"},
		{Kind: entrySeparator},
		{Kind: entryLink, Title: "Store Page", Text: "Open in Browser", Target: links.StorePage},
		{Kind: entryLink, Title: "Store Page", Text: "Open in Steam Client", Target: links.SteamClient},
		{Kind: entryLink, Title: "Store Page", Text: "View on SteamDB", Target: links.SteamDB},
	}
}

// Actions returns the actions of a detail view.
func Actions(appID string) []Action {
	links := transport.LinksFor(appID)
	return []Action{
		{Kind: "open", Title: "Open in Browser", Value: links.StorePage},
		{Kind: "open", Title: "Open in Steam App", Value: links.SteamClient},
		{Kind: "copy", Title: "Copy App ID", Value: appID},
	}
}

package service

import (
	"strconv"
	"strings"

	"steam_search_backend/internal/steam/client"
	"steam_search_backend/internal/steam/transport"
	"steam_search_backend/platform/sanitize"

	"github.com/dustin/go-humanize"
)

const (
	listSeparator       = ", "
	recommendationsUnit = " recommendations"
)

// FormatPrice renders a store price. Cents are divided by 100 and printed in
// their shortest form, so 1999 is "$19.99" and 2000 is "$20".
func FormatPrice(price *client.SearchPrice) string {
	if price == nil {
		return transport.PriceFreeToPlay
	}
	return "$" + strconv.FormatFloat(float64(price.Final)/100, 'f', -1, 64)
}

// ToSearchResultItem maps one storesearch hit to a grid tile.
func ToSearchResultItem(item client.SearchItem) transport.SearchResultItem {
	id := strconv.FormatInt(item.ID, 10)
	links := transport.LinksFor(id)
	return transport.SearchResultItem{
		ID:    id,
		Name:  item.Name,
		Image: links.HeaderImage,
		Price: FormatPrice(item.Price),
		Links: links,
	}
}

// ToGameDetails sanitizes an appdetails payload. Each field falls back to its
// own placeholder independently of the others.
func ToGameDetails(appID string, data *client.AppData) *transport.GameDetails {
	details := &transport.GameDetails{
		AppID:       appID,
		Name:        data.Name,
		Description: transport.DescriptionMissing,
		Reviews:     transport.ValueNotAvailable,
		Developer:   joinOrNA(data.Developers),
		Publisher:   joinOrNA(data.Publishers),
		ReleaseDate: transport.ReleaseDateUnknown,
		Genres:      transport.ValueNotAvailable,
		Links:       transport.LinksFor(appID),
	}

	if desc := sanitize.StripHTML(data.ShortDescription); desc != "" {
		details.Description = desc
	}
	if data.Recommendations != nil {
		details.Reviews = humanize.Comma(data.Recommendations.Total) + recommendationsUnit
	}
	if data.ReleaseDate != nil && strings.TrimSpace(data.ReleaseDate.Date) != "" {
		details.ReleaseDate = data.ReleaseDate.Date
	}

	genres := make([]string, 0, len(data.Genres))
	for _, g := range data.Genres {
		if g.Description != "" {
			genres = append(genres, g.Description)
		}
	}
	details.Genres = joinOrNA(genres)

	details.PCRequirements = sanitize.StripHTMLSpaced(data.PCRequirements.Minimum)

	return details
}

func joinOrNA(values []string) string {
	if len(values) == 0 {
		return transport.ValueNotAvailable
	}
	return strings.Join(values, listSeparator)
}

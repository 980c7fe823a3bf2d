// Package transport provides DTOs for the Steam store domain.
package transport

import "fmt"

// MinQueryLength is the shortest query that triggers a store search.
const MinQueryLength = 2

// Placeholder text substituted when upstream data is absent.
const (
	PriceFreeToPlay    = "Free to Play"
	DescriptionMissing = "No description available."
	ValueNotAvailable  = "N/A"
	ReleaseDateUnknown = "TBA"
)

// Links are the URLs derived from an app identifier.
type Links struct {
	HeaderImage string `json:"headerImage"`
	StorePage   string `json:"storePage"`
	SteamClient string `json:"steamClient"` // steam:// deep link
	SteamDB     string `json:"steamDb"`
}

// LinksFor derives every URL for the given app identifier.
func LinksFor(appID string) Links {
	return Links{
		HeaderImage: HeaderImageURL(appID),
		StorePage:   fmt.Sprintf("https://store.steampowered.com/app/%s", appID),
		SteamClient: fmt.Sprintf("steam://store/%s", appID),
		SteamDB:     fmt.Sprintf("https://steamdb.info/app/%s/", appID),
	}
}

// HeaderImageURL returns the CDN header image for an app.
func HeaderImageURL(appID string) string {
	return fmt.Sprintf("https://cdn.cloudflare.steamstatic.com/steam/apps/%s/header.jpg", appID)
}

// SearchResultItem is one tile in the search grid.
type SearchResultItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Price string `json:"price,omitempty"`
	Links Links  `json:"links"`
}

// SearchResponse wraps the search grid.
type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
}

// GameDetails is the display-ready detail view of one app.
// Every field except Name and PCRequirements is always populated, falling back to a
// placeholder when upstream omitted it.
type GameDetails struct {
	AppID          string `json:"appId"`
	Name           string `json:"name,omitempty"`
	Description    string `json:"description"`
	Reviews        string `json:"reviews"`
	Developer      string `json:"developer"`
	Publisher      string `json:"publisher"`
	ReleaseDate    string `json:"releaseDate"`
	Genres         string `json:"genres"`
	PCRequirements string `json:"pcRequirements,omitempty"`
	Links          Links  `json:"links"`
}

// SearchRequest contains the query parameters of a store search.
// Queries below MinQueryLength are valid and yield an empty grid.
type SearchRequest struct {
	Query string `form:"q" validate:"max=200"`
}

// DetailsRequest contains the path parameters of a details lookup.
type DetailsRequest struct {
	AppID string `uri:"appId" validate:"required,appid"`
}

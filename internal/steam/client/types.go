package client

import (
	"bytes"
	"encoding/json"
)

// SearchPayload is the raw storesearch response.
type SearchPayload struct {
	Total int          `json:"total"`
	Items []SearchItem `json:"items"`
}

// SearchItem is one storesearch hit.
type SearchItem struct {
	Type      string       `json:"type"`
	Name      string       `json:"name"`
	ID        int64        `json:"id"`
	Price     *SearchPrice `json:"price"`
	TinyImage string       `json:"tiny_image"`
}

// SearchPrice is in minor currency units (cents for cc=US).
type SearchPrice struct {
	Currency string `json:"currency"`
	Initial  int64  `json:"initial"`
	Final    int64  `json:"final"`
}

// appDetailsEnvelope is one entry of the appdetails map, keyed by app id.
type appDetailsEnvelope struct {
	Success bool     `json:"success"`
	Data    *AppData `json:"data"`
}

// AppData mirrors the parts of the appdetails payload that are displayed.
type AppData struct {
	Name             string           `json:"name"`
	SteamAppID       int64            `json:"steam_appid"`
	ShortDescription string           `json:"short_description"`
	Recommendations  *Recommendations `json:"recommendations"`
	Developers       []string         `json:"developers"`
	Publishers       []string         `json:"publishers"`
	ReleaseDate      *ReleaseDate     `json:"release_date"`
	Genres           []Genre          `json:"genres"`
	PCRequirements   Requirements     `json:"pc_requirements"`
}

type Recommendations struct {
	Total int64 `json:"total"`
}

type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

type Genre struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Requirements holds HTML requirement blocks. Steam sends an empty JSON
// array instead of an object when an app lists none.
type Requirements struct {
	Minimum     string `json:"minimum"`
	Recommended string `json:"recommended"`
}

// UnmarshalJSON accepts both the object form and the empty-array form.
func (r *Requirements) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] == '[' || bytes.Equal(trimmed, []byte("null")) {
		*r = Requirements{}
		return nil
	}

	type plain Requirements
	var out plain
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	*r = Requirements(out)
	return nil
}

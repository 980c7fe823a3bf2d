// Package events declares the domain events of the Steam store module.
// The bus itself lives in platform/events; its types are aliased here so
// modules only import one events package.
package events

import (
	platformevents "steam_search_backend/platform/events"
	"steam_search_backend/platform/logger"
)

type (
	Event       = platformevents.Event
	Bus         = platformevents.Bus
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	BaseEvent   = platformevents.BaseEvent
	InMemoryBus = platformevents.InMemoryBus
)

var NewBaseEvent = platformevents.NewBaseEvent

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// SearchCompleted is published after a store search returned results, in
// upstream order.
type SearchCompleted struct {
	BaseEvent
	Query  string   `json:"query"`
	AppIDs []string `json:"appIds"`
}

func (e SearchCompleted) EventName() string { return "steam.search.completed" }

// DetailsFetched is published when details came from the store rather than
// the cache.
type DetailsFetched struct {
	BaseEvent
	AppID string `json:"appId"`
}

func (e DetailsFetched) EventName() string { return "steam.details.fetched" }

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	panelsvc "steam_search_backend/internal/panel/service"
	"steam_search_backend/internal/steam/transport"
	"steam_search_backend/platform/apperr"
	"steam_search_backend/platform/logger"
)

type emptyStore struct{}

func (emptyStore) Search(ctx context.Context, query string) ([]transport.SearchResultItem, error) {
	return []transport.SearchResultItem{}, nil
}

func (emptyStore) Details(ctx context.Context, appID string) (*transport.GameDetails, error) {
	return nil, apperr.NotFound("app details not available")
}

func TestFormatGrid(t *testing.T) {
	out := format(panelsvc.Snapshot{
		Query:         "portal",
		SearchLoading: true,
		Items: []transport.SearchResultItem{
			{ID: "400", Name: "Portal", Price: "$9.99"},
			{ID: "620", Name: "Portal 2", Price: "Free to Play"},
		},
	})

	if !strings.Contains(out, "[portal] searching...") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, "  1. Portal") || !strings.Contains(out, "  2. Portal 2") {
		t.Fatalf("missing rows: %q", out)
	}
	if !strings.Contains(out, "Free to Play") {
		t.Fatalf("missing price: %q", out)
	}
}

func TestFormatDetail(t *testing.T) {
	out := format(panelsvc.Snapshot{Detail: &panelsvc.DetailView{AppID: "620", Name: "Portal 2", Price: "$9.99", Loading: true}})

	if !strings.Contains(out, "# Portal 2") {
		t.Fatalf("missing title: %q", out)
	}
	if !strings.Contains(out, "https://store.steampowered.com/app/620") {
		t.Fatalf("missing store link: %q", out)
	}
	if !strings.Contains(out, "(loading)") {
		t.Fatalf("missing loading marker: %q", out)
	}
}

func TestRunCommandsRejectsUnknownResult(t *testing.T) {
	session := panelsvc.NewSession(context.Background(), emptyStore{}, logger.Discard())
	defer session.Close()

	var out bytes.Buffer
	runCommands(context.Background(), strings.NewReader(":open 3\n:quit\nignored\n"), &out, session)

	if !strings.Contains(out.String(), `no result "3"`) {
		t.Fatalf("unexpected output %q", out.String())
	}
	if session.Store.Snapshot().Query != "" {
		t.Fatal("input after :quit must not be processed")
	}
}

package service

import (
	"testing"
	"time"
)

func TestStoreSubscribeReceivesCurrentSnapshot(t *testing.T) {
	store := NewStore()
	store.Update(func(s *Snapshot) { s.Query = "portal" })

	ch, unsubscribe := store.Subscribe()
	defer unsubscribe()

	snap := <-ch
	if snap.Query != "portal" || snap.Version != 1 {
		t.Fatalf("unexpected initial snapshot %+v", snap)
	}
}

func TestStoreSlowSubscriberSeesLatest(t *testing.T) {
	store := NewStore()
	ch, unsubscribe := store.Subscribe()
	defer unsubscribe()

	for _, q := range []string{"p", "po", "por", "portal"} {
		store.Update(func(s *Snapshot) { s.Query = q })
	}

	select {
	case snap := <-ch:
		if snap.Query != "portal" || snap.Version != 4 {
			t.Fatalf("expected latest snapshot, got %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	select {
	case snap := <-ch:
		t.Fatalf("unexpected extra snapshot %+v", snap)
	default:
	}
}

func TestStoreUnsubscribeClosesChannel(t *testing.T) {
	store := NewStore()
	ch, unsubscribe := store.Subscribe()
	<-ch

	unsubscribe()
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
	store.Update(func(s *Snapshot) { s.Query = "after" })
}

func TestStoreNewStartsWithEmptyGrid(t *testing.T) {
	snap := NewStore().Snapshot()
	if snap.Items == nil || len(snap.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", snap.Items)
	}
	if snap.Detail != nil {
		t.Fatal("expected no detail view")
	}
}

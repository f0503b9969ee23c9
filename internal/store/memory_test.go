package store

import (
	"errors"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestMemoryStoreCommitLatest(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)

	if _, err := s.Latest("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	seq := s.Begin("a")
	if seq != 1 {
		t.Fatalf("expected first seq 1, got %d", seq)
	}
	// Issued but not committed yet.
	if _, err := s.Latest("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before commit, got %v", err)
	}

	if !s.Commit("a", seq, weather.DashboardView{Session: "a", Seq: seq}) {
		t.Fatalf("expected commit to succeed")
	}
	v, err := s.Latest("a")
	if err != nil || v.Seq != seq {
		t.Fatalf("unexpected latest view %+v, err %v", v, err)
	}
}

func TestMemoryStoreRejectsStaleCommit(t *testing.T) {
	s := NewMemoryStore(0, 0)

	older := s.Begin("a")
	newer := s.Begin("a")

	if !s.Commit("a", newer, weather.DashboardView{Seq: newer}) {
		t.Fatalf("expected newer commit to succeed")
	}
	if s.Commit("a", older, weather.DashboardView{Seq: older}) {
		t.Fatalf("expected older commit to be rejected")
	}
	if s.Commit("unknown", 1, weather.DashboardView{}) {
		t.Fatalf("expected commit to unknown session to be rejected")
	}

	v, _ := s.Latest("a")
	if v.Seq != newer {
		t.Fatalf("expected seq %d, got %d", newer, v.Seq)
	}
}

func TestMemoryStoreSessionsAreIndependent(t *testing.T) {
	s := NewMemoryStore(0, 0)

	a := s.Begin("a")
	b := s.Begin("b")
	if a == b {
		t.Fatalf("expected distinct ids, got a=%d b=%d", a, b)
	}
	// A newer id on "b" does not supersede "a".
	if !s.Commit("a", a, weather.DashboardView{}) || !s.Commit("b", b, weather.DashboardView{}) {
		t.Fatalf("expected both commits to succeed")
	}
}

func TestMemoryStoreEvictsByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	clock := time.Unix(1000, 0)
	s.now = func() time.Time { return clock }

	s.Begin("a")
	clock = clock.Add(time.Second)
	s.Begin("b")
	clock = clock.Add(time.Second)
	s.Begin("c")

	if s.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", s.Len())
	}
	if _, err := s.Latest("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected oldest session to be evicted, got %v", err)
	}
}

func TestMemoryStoreEvictedSessionRejectsStaleCommit(t *testing.T) {
	s := NewMemoryStore(1, 0)

	stale := s.Begin("a")
	s.Begin("b") // evicts "a" while its update is in flight
	fresh := s.Begin("a")

	if stale == fresh {
		t.Fatalf("re-created session reused id %d", fresh)
	}
	if !s.Commit("a", fresh, weather.DashboardView{Seq: fresh}) {
		t.Fatalf("expected fresh commit to succeed")
	}
	if s.Commit("a", stale, weather.DashboardView{Seq: stale}) {
		t.Fatalf("expected stale commit to be rejected")
	}

	v, err := s.Latest("a")
	if err != nil || v.Seq != fresh {
		t.Fatalf("expected view %d, got %d (err %v)", fresh, v.Seq, err)
	}
}

func TestMemoryStoreEvictsByAge(t *testing.T) {
	s := NewMemoryStore(0, time.Minute)
	clock := time.Unix(1000, 0)
	s.now = func() time.Time { return clock }

	seq := s.Begin("old")
	s.Commit("old", seq, weather.DashboardView{})

	clock = clock.Add(2 * time.Minute)
	s.Begin("new")

	if _, err := s.Latest("old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected idle session to be evicted, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", s.Len())
	}
}

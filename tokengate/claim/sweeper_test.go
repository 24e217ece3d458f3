package claim

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSweepOnce(t *testing.T) {
	store := newFakeStore()
	c := testCoordinator(t, store)

	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	openSession(t, c)

	if _, err := c.AttemptClaim(context.Background(), "user1", []string{"Beginner"}); err != nil {
		t.Fatalf("AttemptClaim() error = %v", err)
	}

	// No Discord client is wired; expiry DMs fail silently, which must not
	// affect the sweep itself.
	s := NewSweeper(c, NewNotifier(), time.Minute)

	now = now.Add(4 * 24 * time.Hour)
	s.sweepOnce(context.Background())

	if store.content(testRepo, testTokensPath) != "" {
		t.Error("sweep left the expired token in the source file")
	}
	status, err := c.CheckStatus(context.Background(), "user1")
	if err != nil {
		t.Fatalf("CheckStatus() error = %v", err)
	}
	if status.Record.CurrentToken != "" {
		t.Errorf("sweep left token fields on the record: %+v", status.Record)
	}

	// A second pass finds nothing and writes nothing.
	before := store.seq
	s.sweepOnce(context.Background())
	if store.seq != before {
		t.Error("idle sweep performed writes")
	}
}

func TestSweepOnceRetriesNextTick(t *testing.T) {
	store := newFakeStore()
	c := testCoordinator(t, store)

	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	openSession(t, c)

	if _, err := c.AttemptClaim(context.Background(), "user1", []string{"Beginner"}); err != nil {
		t.Fatalf("AttemptClaim() error = %v", err)
	}
	now = now.Add(4 * 24 * time.Hour)

	s := NewSweeper(c, NewNotifier(), time.Minute)

	// A failing cycle leaves everything for the next one.
	store.putErr[storeKey(testRepo, testTokensPath)] = errors.New("boom")
	s.sweepOnce(context.Background())
	if store.content(testRepo, testTokensPath) == "" {
		t.Fatal("aborted sweep still cleaned the source file")
	}

	delete(store.putErr, storeKey(testRepo, testTokensPath))
	s.sweepOnce(context.Background())
	if store.content(testRepo, testTokensPath) != "" {
		t.Error("retried sweep did not clean the source file")
	}
}

func TestSweeperStartStop(t *testing.T) {
	store := newFakeStore()
	c := testCoordinator(t, store)

	s := NewSweeper(c, NewNotifier(), 50*time.Millisecond)
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.Stop()
}

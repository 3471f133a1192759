package linkhub

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailabilityTrackerRejectsInvalidWithoutLookup(t *testing.T) {
	calls := 0
	tr := NewAvailabilityTracker(func(context.Context, string) (bool, error) {
		calls++
		return false, nil
	})

	v := tr.Check(context.Background(), "ab")
	assert.Equal(t, AvailabilityInvalid, v.Status)
	assert.Equal(t, 0, calls)

	v = tr.Check(context.Background(), "ab-ok")
	assert.Equal(t, AvailabilityAvailable, v.Status)
	assert.Equal(t, "ab-ok", v.Username)
	assert.Equal(t, 1, calls)
	assert.Equal(t, v, tr.Current())
}

func TestAvailabilityTrackerVerdicts(t *testing.T) {
	taken := map[string]bool{"alice": true}
	tr := NewAvailabilityTracker(func(_ context.Context, u string) (bool, error) {
		if u == "broken" {
			return false, errors.New("store down")
		}
		return taken[u], nil
	})

	assert.Equal(t, AvailabilityTaken, tr.Check(context.Background(), "Alice").Status)
	assert.Equal(t, AvailabilityAvailable, tr.Check(context.Background(), "bob").Status)
	assert.Equal(t, AvailabilityUnknown, tr.Check(context.Background(), "broken").Status)
}

func TestAvailabilityTrackerDiscardsStaleResults(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	tr := NewAvailabilityTracker(func(_ context.Context, u string) (bool, error) {
		if u == "slow" {
			close(started)
			<-release
			return true, nil
		}
		return false, nil
	})

	var seen []Verdict
	var mu sync.Mutex
	tr.OnChange(func(v Verdict) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})

	done := make(chan Verdict)
	go func() { done <- tr.Check(context.Background(), "slow") }()
	<-started

	fast := tr.Check(context.Background(), "fast")
	assert.Equal(t, AvailabilityAvailable, fast.Status)

	close(release)
	stale := <-done
	assert.Equal(t, AvailabilityTaken, stale.Status)

	assert.Equal(t, "fast", tr.Current().Username)
	assert.Equal(t, AvailabilityAvailable, tr.Current().Status)

	mu.Lock()
	defer mu.Unlock()
	for _, v := range seen {
		assert.False(t, v.Username == "slow" && v.Status == AvailabilityTaken, "stale verdict applied")
	}
}

func TestAvailabilityTrackerStartKeepsIssueOrder(t *testing.T) {
	gates := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
		"third":  make(chan struct{}),
	}
	tr := NewAvailabilityTracker(func(_ context.Context, u string) (bool, error) {
		<-gates[u]
		return u == "second", nil
	})

	first := tr.Start(context.Background(), "first")
	second := tr.Start(context.Background(), "second")
	third := tr.Start(context.Background(), "third")
	assert.Equal(t, Verdict{Username: "third", Status: AvailabilityPending, Seq: 3}, tr.Current())

	close(gates["third"])
	assert.Equal(t, AvailabilityAvailable, (<-third).Status)
	close(gates["second"])
	assert.Equal(t, AvailabilityTaken, (<-second).Status)
	close(gates["first"])
	assert.Equal(t, uint64(1), (<-first).Seq)

	assert.Equal(t, Verdict{Username: "third", Status: AvailabilityAvailable, Seq: 3}, tr.Current())
}

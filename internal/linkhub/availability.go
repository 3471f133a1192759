package linkhub

import (
	"context"
	"sync"
)

type Availability string

const (
	AvailabilityUnknown   Availability = "unknown"
	AvailabilityPending   Availability = "pending"
	AvailabilityAvailable Availability = "available"
	AvailabilityTaken     Availability = "taken"
	AvailabilityInvalid   Availability = "invalid"
)

type Verdict struct {
	Username string       `json:"username"`
	Status   Availability `json:"status"`
	Seq      uint64       `json:"-"`
}

// ExistsFunc reports whether a profile with username already exists.
type ExistsFunc func(ctx context.Context, username string) (bool, error)

// AvailabilityTracker runs username availability checks as the user types.
// Every check gets a sequence number and only the latest issued check may set
// the current verdict, so a slow early lookup can never overwrite a newer one.
type AvailabilityTracker struct {
	mu      sync.Mutex
	exists  ExistsFunc
	issued  uint64
	current Verdict
	watch   func(Verdict)
}

func NewAvailabilityTracker(exists ExistsFunc) *AvailabilityTracker {
	return &AvailabilityTracker{
		exists:  exists,
		current: Verdict{Status: AvailabilityUnknown},
	}
}

// OnChange registers fn to be called whenever the current verdict changes.
func (t *AvailabilityTracker) OnChange(fn func(Verdict)) {
	t.mu.Lock()
	t.watch = fn
	t.mu.Unlock()
}

func (t *AvailabilityTracker) Current() Verdict {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Check validates raw and, if it is a well-formed username, looks it up. It
// returns the verdict of this call whether or not it became current.
func (t *AvailabilityTracker) Check(ctx context.Context, raw string) Verdict {
	return <-t.Start(ctx, raw)
}

// Start issues a check for raw and runs the lookup in the background. The
// sequence number is taken before Start returns, so checks started one after
// another are ordered the way they were started. The channel receives this
// check's verdict once.
func (t *AvailabilityTracker) Start(ctx context.Context, raw string) <-chan Verdict {
	out := make(chan Verdict, 1)

	t.mu.Lock()
	t.issued++
	seq := t.issued
	username, err := ValidateUsername(raw)
	if err != nil {
		v := Verdict{Username: NormalizeUsername(raw), Status: AvailabilityInvalid, Seq: seq}
		t.applyLocked(v)
		t.mu.Unlock()
		out <- v
		return out
	}
	t.applyLocked(Verdict{Username: username, Status: AvailabilityPending, Seq: seq})
	t.mu.Unlock()

	go func() { out <- t.lookup(ctx, username, seq) }()
	return out
}

func (t *AvailabilityTracker) lookup(ctx context.Context, username string, seq uint64) Verdict {
	v := Verdict{Username: username, Seq: seq}
	taken, err := t.exists(ctx, username)
	switch {
	case err != nil:
		v.Status = AvailabilityUnknown
	case taken:
		v.Status = AvailabilityTaken
	default:
		v.Status = AvailabilityAvailable
	}

	t.mu.Lock()
	if seq == t.issued {
		t.applyLocked(v)
	}
	t.mu.Unlock()
	return v
}

func (t *AvailabilityTracker) applyLocked(v Verdict) {
	t.current = v
	if t.watch != nil {
		t.watch(v)
	}
}

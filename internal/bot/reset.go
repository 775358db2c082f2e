package bot

import (
	"sync"
	"time"
)

// resetTimeout is how long a /reset request stays confirmable.
const resetTimeout = 60 * time.Second

type resetState int

const (
	resetNone resetState = iota
	resetValid
	resetExpired
)

// resetConfirmations tracks pending /reset requests per admin user.
// The clock is a field so tests can drive time deterministically.
type resetConfirmations struct {
	mu      sync.Mutex
	pending map[int64]time.Time
	now     func() time.Time
}

func newResetConfirmations() *resetConfirmations {
	return &resetConfirmations{
		pending: make(map[int64]time.Time),
		now:     time.Now,
	}
}

// Request records a pending reset for userID. A repeated /reset restarts
// the window rather than stacking a second confirmation.
func (rc *resetConfirmations) Request(userID int64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.pending[userID] = rc.now()
}

// Consume removes any pending reset for userID and reports whether it was
// still inside the window. Exactly 60s elapsed counts as expired. An expired
// confirmation is consumed too: the next /confirm_reset finds nothing.
func (rc *resetConfirmations) Consume(userID int64) resetState {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	requestedAt, ok := rc.pending[userID]
	if !ok {
		return resetNone
	}
	delete(rc.pending, userID)

	if rc.now().Sub(requestedAt) >= resetTimeout {
		return resetExpired
	}
	return resetValid
}

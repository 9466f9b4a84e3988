// internal/status/tracker.go
package status

// Tracker derives the link-health snapshot from poll outcomes.
// It is owned by one goroutine; it has no locking.
type Tracker struct {
	snap Snapshot
}

// NewTracker starts in HealthUnknown.
func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot { return t.snap }

// Observe records one poll outcome and reports whether the snapshot changed.
// seconds_in_error is reset on recovery and only advanced by Tick.
func (t *Tracker) Observe(err error) (Snapshot, bool) {
	changed := false

	if err == nil {
		if t.snap.Health != HealthOK {
			t.snap.Health = HealthOK
			changed = true
		}
		if t.snap.LastErrorCode != CodeOK {
			t.snap.LastErrorCode = CodeOK
			changed = true
		}
		if t.snap.SecondsInError != 0 {
			t.snap.SecondsInError = 0
			changed = true
		}
		return t.snap, changed
	}

	if t.snap.Health != HealthError {
		t.snap.Health = HealthError
		changed = true
	}
	if code := ErrorCode(err); t.snap.LastErrorCode != code {
		t.snap.LastErrorCode = code
		changed = true
	}
	return t.snap, changed
}

// Tick is called at 1 Hz. While not OK it advances seconds_in_error,
// saturating at MaxSecondsInError.
func (t *Tracker) Tick() (Snapshot, bool) {
	if t.snap.Health == HealthOK || t.snap.SecondsInError >= MaxSecondsInError {
		return t.snap, false
	}
	t.snap.SecondsInError++
	return t.snap, true
}

package epic

import "time"

// Option observes an epic run and augments it with side features such as
// drawing the act sequence or measuring act durations.
type Option interface {
	// New initialises the option when the epic is created.
	New() error
	// PrepareAct runs before each act, linking it to the act that preceded it.
	PrepareAct(prev, act Info) error
	// OnActDone runs after each act with its wall-clock duration. For an act
	// that consumed a nested sub-sequence the duration covers the whole span.
	OnActDone(act Info, elapsed time.Duration) error
	// Finish runs after the last act.
	Finish() error
}

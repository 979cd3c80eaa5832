package triage

import "errors"

// Client-facing errors surfaced by the service. Malformed user answers are
// never surfaced as errors; they become re-prompts. Emergency detection is a
// successful terminal outcome, not an error path.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotReady        = errors.New("assessment not ready")
	ErrSessionClosed   = errors.New("session already complete")
)

// errInputShape marks a stage answer that does not fit the expected shape.
// It is recovered locally via re-prompt and never leaves the engine.
var errInputShape = errors.New("answer does not match expected shape")

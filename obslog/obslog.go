// Package obslog wires the simulation's structured logging, built on
// github.com/joeycumines/logiface with the github.com/joeycumines/logiface-slog
// backend, grounded on islog.NewLogger's Logger-over-slog.Handler
// construction.
//
// A *Logger is safe to use uninitialized only via New(nil), which defaults
// to an io.Discard-backed handler — matching the teacher's "safe zero
// value"/defaults-applied-if-nil construction idiom (mirrored from
// microbatch.BatcherConfig), so embedding go-tracksim in a caller that never
// configures logging produces no output rather than panicking or writing to
// stderr.
package obslog

import (
	"io"
	"log/slog"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
)

// Logger is the structured logger used by the simulation to record its
// construction, load/unload events, and run start/stop; collision dispatch
// is not logged.
// Collision and stepping rules never receive one — logging stays at the
// simulation boundary, keeping rule evaluation pure (spec §4.5, §4.6).
type Logger = logiface.Logger[*islog.Event]

// New constructs a Logger writing to handler. If handler is nil, logging is
// silently discarded (an io.Discard-backed slog.TextHandler).
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(io.Discard, nil)
	}
	return logiface.New[*islog.Event](
		islog.NewLogger(handler),
		logiface.WithLevel[*islog.Event](logiface.LevelInformational),
	)
}

// Discard is a ready-made Logger that drops everything, for callers that
// want to be explicit about opting out of logging rather than relying on
// New(nil)'s default.
func Discard() *Logger {
	return New(nil)
}

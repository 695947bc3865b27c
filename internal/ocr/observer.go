package ocr

import (
	"github.com/rs/zerolog"
)

// EventKind identifies a pipeline event.
type EventKind string

const (
	EventOrientationCorrected EventKind = "orientation_corrected"
	EventOrientationSkipped   EventKind = "orientation_skipped"
	EventCandidateScored      EventKind = "candidate_scored"
	EventStrategyFailed       EventKind = "strategy_failed"
	EventWinnerSelected       EventKind = "winner_selected"
	EventNoUsableText         EventKind = "no_usable_text"
	EventRecovered            EventKind = "recovered"
)

// Event describes one step of a scan. Only the fields relevant to Kind are set.
type Event struct {
	Kind     EventKind
	Strategy string
	Score    int
	Chars    int
	Degrees  int
	Err      error
}

// Observer receives pipeline events. Observe is called from the strategy
// goroutines and must be safe for concurrent use.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}

type logObserver struct {
	log zerolog.Logger
}

// NewLogObserver writes events to a zerolog logger: candidate scores at
// debug level, degradations as warnings.
func NewLogObserver(log zerolog.Logger) Observer {
	return logObserver{log: log}
}

func (o logObserver) Observe(e Event) {
	switch e.Kind {
	case EventCandidateScored:
		o.log.Debug().
			Str("strategy", e.Strategy).
			Int("score", e.Score).
			Int("chars", e.Chars).
			Msg("candidate scored")
	case EventWinnerSelected:
		o.log.Info().
			Str("strategy", e.Strategy).
			Int("score", e.Score).
			Msg("best strategy selected")
	case EventOrientationCorrected:
		o.log.Info().Int("degrees", e.Degrees).Msg("image rotated")
	case EventOrientationSkipped:
		o.log.Debug().Err(e.Err).Msg("orientation detection skipped")
	case EventStrategyFailed:
		o.log.Warn().Err(e.Err).Str("strategy", e.Strategy).Msg("strategy failed")
	case EventNoUsableText:
		o.log.Warn().Int("chars", e.Chars).Msg("no usable text recognized")
	case EventRecovered:
		o.log.Error().Err(e.Err).Str("strategy", e.Strategy).Msg("recovered from panic")
	}
}

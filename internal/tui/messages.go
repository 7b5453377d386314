package tui

import "github.com/Veraticus/spend-squad/internal/engine"

// outcomeMsg carries the result of an engine command.
type outcomeMsg struct {
	err     error
	action  string
	outcome engine.Outcome
}

// signalMsg carries one signal read from the engine's sink.
type signalMsg struct {
	signal engine.Signal
}

// signalsClosedMsg reports that the sink was closed.
type signalsClosedMsg struct{}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(2)

	sink.Publish(Signal{Kind: SignalApplied, Title: "one"})
	sink.Publish(Signal{Kind: SignalWarning, Title: "two"})
	sink.Publish(Signal{Kind: SignalWarning, Title: "dropped"})

	got := []string{(<-sink.Signals()).Title, (<-sink.Signals()).Title}
	assert.Equal(t, []string{"one", "two"}, got)

	select {
	case s := <-sink.Signals():
		t.Fatalf("unexpected signal %q", s.Title)
	default:
	}

	sink.Close()
	sink.Close()
	assert.NotPanics(t, func() { sink.Publish(Signal{Title: "late"}) })

	_, open := <-sink.Signals()
	assert.False(t, open)
}

func TestNewChannelSink_MinimumBuffer(t *testing.T) {
	sink := NewChannelSink(0)
	sink.Publish(Signal{Title: "kept"})

	s, ok := <-sink.Signals()
	require.True(t, ok)
	assert.Equal(t, "kept", s.Title)
}

func TestSinkFunc(t *testing.T) {
	var got []SignalKind
	var sink SignalSink = SinkFunc(func(s Signal) { got = append(got, s.Kind) })

	sink.Publish(Signal{Kind: SignalRejected})
	sink.Publish(Signal{Kind: SignalModeChanged})
	assert.Equal(t, []SignalKind{SignalRejected, SignalModeChanged}, got)
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "warning", SignalWarning.String())
	assert.Equal(t, "mode_changed", SignalModeChanged.String())
	assert.Equal(t, "applied_with_warning", OutcomeAppliedWithWarning.String())
	assert.Equal(t, "unknown", OutcomeKind(42).String())
}

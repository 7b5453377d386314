package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewInterruptHandler(t *testing.T) {
	handler := NewInterruptHandler(nil, "Import")
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestHandleInterrupts_ParentCancel(t *testing.T) {
	var output bytes.Buffer
	handler := NewInterruptHandler(&output, "Import")

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(parent, true)

	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled initially")
	default:
	}

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should follow its parent")
	}

	assert.False(t, handler.WasInterrupted(), "a parent cancel is not an interrupt")
	assert.Empty(t, output.String())
}

func TestMarkInterrupted_OnlyOnce(t *testing.T) {
	var output bytes.Buffer
	handler := NewInterruptHandler(&output, "Import")

	handler.markInterrupted()
	handler.markInterrupted()

	assert.True(t, handler.WasInterrupted())
	assert.Equal(t, 1, bytes.Count(output.Bytes(), []byte("Import interrupted!")))
}

func TestShowInterruptMessage(t *testing.T) {
	tests := []struct {
		name        string
		expected    []string
		notExpected []string
		partialSave bool
	}{
		{
			name:        "with partial save",
			partialSave: true,
			expected: []string{
				"Import interrupted!",
				"has been saved",
				"See you later!",
			},
		},
		{
			name: "without partial save",
			expected: []string{
				"Import interrupted!",
				"See you later!",
			},
			notExpected: []string{"has been saved"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			handler := &InterruptHandler{
				writer:      &output,
				operation:   "Import",
				partialSave: tt.partialSave,
			}

			handler.showInterruptMessage()

			for _, expected := range tt.expected {
				assert.Contains(t, output.String(), expected)
			}
			for _, notExpected := range tt.notExpected {
				assert.NotContains(t, output.String(), notExpected)
			}
		})
	}
}

// ABOUTME: Tests for status canonicalization across the backend's status shapes
// ABOUTME: Covers structured objects, bare strings, inference rules, and idempotence

package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize_StructuredStatus(t *testing.T) {
	tests := []struct {
		name   string
		raw    any
		answer string
		want   Canonical
	}{
		{
			name:   "completed object uppercase",
			raw:    map[string]any{"state": "COMPLETED"},
			answer: "some answer",
			want:   Canonical{State: StatusCompleted},
		},
		{
			name:   "errored object carries error text",
			raw:    map[string]any{"state": "ERRORED", "error": "x"},
			answer: "",
			want:   Canonical{State: StatusError, ErrorMessage: "x"},
		},
		{
			name:   "error text under legacy message key",
			raw:    map[string]any{"state": "errored", "message": "model overloaded"},
			answer: "",
			want:   Canonical{State: StatusError, ErrorMessage: "model overloaded"},
		},
		{
			name:   "processing object",
			raw:    map[string]any{"state": "processing"},
			answer: "",
			want:   Canonical{State: StatusProcessing},
		},
		{
			name:   "completed object ignores stray error text",
			raw:    map[string]any{"state": "completed", "error": "leftover"},
			answer: "done",
			want:   Canonical{State: StatusCompleted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonicalize(tt.raw, tt.answer))
		})
	}
}

func TestCanonicalize_StringStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"pending", StatusPending},
		{"Processing", StatusProcessing},
		{"COMPLETED", StatusCompleted},
		{"error", StatusError},
		{"errored", StatusError},
		{"  completed  ", StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Canonicalize(tt.raw, "")
			assert.Equal(t, tt.want, got.State)
			assert.Empty(t, got.ErrorMessage)
		})
	}
}

func TestCanonicalize_Inference(t *testing.T) {
	t.Run("no status but answer present infers completed", func(t *testing.T) {
		got := Canonicalize(nil, "here is your answer")
		assert.Equal(t, StatusCompleted, got.State)
	})

	t.Run("unrecognized status with answer still infers completed", func(t *testing.T) {
		got := Canonicalize("finished???", "full answer text")
		assert.Equal(t, StatusCompleted, got.State)
	})

	t.Run("unrecognized status without answer infers processing", func(t *testing.T) {
		assert.Equal(t, StatusProcessing, Canonicalize("in-flight", "").State)
		assert.Equal(t, StatusProcessing, Canonicalize(map[string]any{"phase": 2}, "").State)
		assert.Equal(t, StatusProcessing, Canonicalize(42, "").State)
	})

	t.Run("nothing at all infers pending", func(t *testing.T) {
		assert.Equal(t, StatusPending, Canonicalize(nil, "").State)
		assert.Equal(t, StatusPending, Canonicalize("", "").State)
		assert.Equal(t, StatusPending, Canonicalize("   ", "").State)
		assert.Equal(t, StatusPending, Canonicalize(map[string]any{}, "").State)
	})
}

func TestCanonicalize_NeverPanicsOnOddShapes(t *testing.T) {
	shapes := []any{
		nil,
		[]string{"completed"},
		map[string]any{"state": 7},
		map[string]any{"state": nil},
		3.14,
		true,
		map[string]any{"state": "errored", "error": 500},
	}
	for _, raw := range shapes {
		assert.NotPanics(t, func() { Canonicalize(raw, "") })
		assert.NotPanics(t, func() { Canonicalize(raw, "answer") })
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	inputs := []struct {
		raw    any
		answer string
	}{
		{map[string]any{"state": "ERRORED", "error": "x"}, ""},
		{"processing", ""},
		{nil, "answer"},
		{"garbage", ""},
		{nil, ""},
	}
	for _, in := range inputs {
		first := Canonicalize(in.raw, in.answer)
		second := Canonicalize(in.raw, in.answer)
		assert.Equal(t, first, second)
	}
}

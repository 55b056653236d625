package app

import (
	"testing"
	"time"
)

func TestNewOperation(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	op := NewOperation("log add", "op-1", start)

	if op.Name != "log add" {
		t.Errorf("Name = %q, want %q", op.Name, "log add")
	}
	if op.OpID != "op-1" {
		t.Errorf("OpID = %q, want %q", op.OpID, "op-1")
	}
	if op.Status != "success" {
		t.Errorf("Status = %q, want %q", op.Status, "success")
	}
	if !op.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", op.StartedAt, start)
	}
	if op.Persisted() {
		t.Error("Persisted() = true for new operation")
	}

	op.Fail()
	if op.Status != "error" {
		t.Errorf("Status after Fail() = %q, want %q", op.Status, "error")
	}
}

func TestOperation_Persisted(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want bool
	}{
		{name: "not persisted when ID is 0", id: 0, want: false},
		{name: "persisted when ID is positive", id: 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := &Operation{ID: tt.id}
			if got := op.Persisted(); got != tt.want {
				t.Errorf("Persisted() = %v, want %v", got, tt.want)
			}
		})
	}
}

package app

import "time"

// Operation tracks the CLI command being run. Operations are created in memory
// with ID=0; only state-mutating commands persist them to the journal.
type Operation struct {
	ID        int64
	OpID      string
	Name      string
	Profile   string
	Status    string // "success" or "error"
	StartedAt time.Time
}

// NewOperation creates a new in-memory operation.
func NewOperation(name, opID string, startedAt time.Time) *Operation {
	return &Operation{
		OpID:      opID,
		Name:      name,
		Status:    "success",
		StartedAt: startedAt,
	}
}

// Persisted returns true if this operation has been saved to the journal.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = "error"
}

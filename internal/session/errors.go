package session

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation failures caught before the engine is reached.
var (
	// ErrNotReady is returned when Execute or Reset is called while the
	// session status is not StatusReady.
	ErrNotReady = errors.New("session is not ready")

	// ErrEmptyQuery is returned when Execute is called with a query that is
	// empty after trimming whitespace.
	ErrEmptyQuery = errors.New("query is empty")
)

// InitStage identifies which part of initialization failed.
type InitStage string

const (
	// StageOpen covers opening and pinging the in-memory database.
	StageOpen InitStage = "open"
	// StageSchema covers table creation.
	StageSchema InitStage = "schema"
	// StageSeed covers inserting the sample rows.
	StageSeed InitStage = "seed"
)

// InitError is recorded when Initialize fails. It is terminal for the
// session: the status moves to StatusError and stays there.
type InitError struct {
	Stage InitStage
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initialization failed (%s): %v", e.Stage, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// QueryError wraps an engine rejection of a user query. The engine's message
// is reported verbatim; the session status is unchanged.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string { return e.Err.Error() }

func (e *QueryError) Unwrap() error { return e.Err }

// ResetError is returned when Reset fails partway. The session stays ready:
// the database may be inconsistent but remains usable, and the caller can
// retry the reset.
type ResetError struct {
	Err error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("reset failed: %v", e.Err)
}

func (e *ResetError) Unwrap() error { return e.Err }

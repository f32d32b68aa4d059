// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package run

import "fmt"

// StageError is a fatal failure tagged with the state it happened in.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

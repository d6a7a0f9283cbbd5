package pipeline

import "fmt"

// MissingArtifactError is fatal: a requested stage depends on an
// intermediate artifact that no earlier run produced.
type MissingArtifactError struct {
	Stage   int
	Pattern string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("stage %d: no input artifact matching %s; run the earlier stages first", e.Stage, e.Pattern)
}

// StageError wraps a failure with the stage that produced it, so the caller
// always learns which stage halted the chain.
type StageError struct {
	Stage int
	Name  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s): %v", e.Stage, e.Name, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

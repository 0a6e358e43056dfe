package export

import "fmt"

// UsageError reports a malformed selector shape. Its message is the usage
// text of the command form that rejected the input.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return e.Usage
}

// SnapshotError wraps a failure of the host to produce the requested data.
// The host's message is surfaced verbatim.
type SnapshotError struct {
	Err error
}

func (e *SnapshotError) Error() string {
	return e.Err.Error()
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// ToolLaunchError reports that an external tool subprocess could not be
// started at all.
type ToolLaunchError struct {
	Tool string
	Err  error
}

func (e *ToolLaunchError) Error() string {
	return fmt.Sprintf("could not launch %s: %v", e.Tool, e.Err)
}

func (e *ToolLaunchError) Unwrap() error {
	return e.Err
}

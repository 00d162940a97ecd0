package store

import "fmt"

// PersistError reports a failed annotation save. StatusCode is zero when the
// request never reached the server.
type PersistError struct {
	Ref        string
	StatusCode int
	Err        error
}

func (e *PersistError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to save annotations for %q: server returned %d", e.Ref, e.StatusCode)
	}
	return fmt.Sprintf("failed to save annotations for %q: %v", e.Ref, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// LoadError reports a failed annotation or image fetch. StatusCode is zero
// when the request never reached the server.
type LoadError struct {
	Ref        string
	StatusCode int
	Err        error
}

func (e *LoadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to load %q: server returned %d", e.Ref, e.StatusCode)
	}
	return fmt.Sprintf("failed to load %q: %v", e.Ref, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

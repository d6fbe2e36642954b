package core

import (
	"errors"
)

// Pipeline error taxonomy. Sites wrap these with fmt.Errorf("%w: ...")
// and callers match with errors.Is.
var (
	// ErrFormat is a bad magic or a structurally impossible header.
	ErrFormat = errors.New("invalid mesh format")
	// ErrIO is a short read/write or a filesystem failure.
	ErrIO = errors.New("i/o failure")
	// ErrExternalTool is a non-zero exit from a collaborator subprocess.
	ErrExternalTool = errors.New("external tool failed")
	// ErrDecode is a malformed embedded texture container.
	ErrDecode = errors.New("malformed texture container")
	// ErrHardware is a resource creation refused by the platform.
	ErrHardware = errors.New("hardware refused resource creation")
)

package pty

import "fmt"

// ResourceAllocationError is returned when the setup sequence cannot
// produce a usable pseudo-terminal pair. Every setup failure, including a
// slave path that cannot be resolved, is reported this way.
type ResourceAllocationError struct {
	Op  string
	Err error
}

func (e *ResourceAllocationError) Error() string {
	return fmt.Sprintf("pty allocation failed: %s: %v", e.Op, e.Err)
}

func (e *ResourceAllocationError) Unwrap() error {
	return e.Err
}

package pty

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	ptylib "github.com/creack/pty"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// Opener allocates a pseudo-terminal pair.
type Opener func() (master, slave *os.File, err error)

// DefaultOpener asks the operating system for a new pair.
var DefaultOpener Opener = ptylib.Open

// Pair is an allocated pseudo-terminal pair. It is never mutated after
// OpenPair returns.
type Pair struct {
	ID     string
	Master *os.File
	Slave  *os.File
	// Path is the slave device path another process opens to read the pair.
	Path string

	closeOnce sync.Once
	closeErr  error
}

// OpenPair allocates a pair with open and resolves the slave to its device
// path. On any failure the descriptors that were opened are closed and a
// *ResourceAllocationError is returned.
func OpenPair(open Opener) (*Pair, error) {
	if open == nil {
		open = DefaultOpener
	}

	master, slave, err := open()
	if err != nil {
		return nil, &ResourceAllocationError{Op: "open", Err: err}
	}

	p := &Pair{
		ID:     uuid.New().String(),
		Master: master,
		Slave:  slave,
	}

	if master == nil || slave == nil {
		p.Close()
		return nil, &ResourceAllocationError{Op: "open", Err: errors.New("opener returned a nil descriptor")}
	}

	path, err := resolvePath(slave)
	if err != nil {
		p.Close()
		return nil, &ResourceAllocationError{Op: "resolve slave path", Err: err}
	}

	if !filepath.IsAbs(path) {
		p.Close()
		return nil, &ResourceAllocationError{Op: "resolve slave path", Err: errors.New("not an absolute path: " + path)}
	}

	if !isatty.IsTerminal(slave.Fd()) {
		p.Close()
		return nil, &ResourceAllocationError{Op: "resolve slave path", Err: errors.New(path + " is not a terminal")}
	}

	p.Path = path
	return p, nil
}

// Close releases both descriptors. Calls after the first return the first
// result.
func (p *Pair) Close() error {
	p.closeOnce.Do(func() {
		var errs []error
		if p.Slave != nil {
			errs = append(errs, p.Slave.Close())
		}
		if p.Master != nil {
			errs = append(errs, p.Master.Close())
		}
		p.closeErr = errors.Join(errs...)
	})
	return p.closeErr
}

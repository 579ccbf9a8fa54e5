package pty

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/PiranhaCodes/ptygen/internal/logger"
)

// Announcer allocates one pair, writes its slave path to Out and holds it.
type Announcer struct {
	// Opener defaults to DefaultOpener.
	Opener Opener
	// Hold defaults to HoldSpin.
	Hold HoldMode
	// Out receives the path line. Defaults to os.Stdout.
	Out io.Writer
	// Registry defaults to DefaultRegistry.
	Registry *Registry
	Logger   *logger.Logger
}

func (a *Announcer) out() io.Writer {
	if a.Out == nil {
		return os.Stdout
	}
	return a.Out
}

func (a *Announcer) registry() *Registry {
	if a.Registry == nil {
		return DefaultRegistry
	}
	return a.Registry
}

func (a *Announcer) log() *logger.Logger {
	if a.Logger == nil {
		return logger.Discard()
	}
	return a.Logger
}

// Announce writes the pair's slave path followed by a newline.
func (a *Announcer) Announce(p *Pair) error {
	if _, err := fmt.Fprintln(a.out(), p.Path); err != nil {
		return fmt.Errorf("failed to announce %s: %w", p.Path, err)
	}
	return nil
}

// Run allocates a pair, announces it and holds it.
//
// Setup failures return before anything is written to Out. In HoldSpin
// mode Run never returns after the announcement. In HoldBlock mode it
// returns nil once ctx is cancelled, after releasing every held pair.
func (a *Announcer) Run(ctx context.Context) error {
	mode, err := ParseHoldMode(string(a.Hold))
	if err != nil {
		return err
	}

	l := a.log()
	reg := a.registry()

	pair, err := OpenPair(a.Opener)
	if err != nil {
		return err
	}
	reg.Track(pair)
	l.Debugf("Allocated pair %s", pair.ID)

	if err := a.Announce(pair); err != nil {
		reg.Untrack(pair)
		pair.Close()
		return err
	}
	l.Debugf("Holding %s (%s)", pair.Path, mode)

	if mode == HoldSpin {
		spin()
	}

	block(ctx)

	l.Debugf("Releasing %d pair(s)", reg.Len())
	for _, id := range reg.ReleaseAll() {
		l.Errorf("Warning: failed to close pair %s", id)
	}
	l.Debugf("Shutdown complete")
	return nil
}

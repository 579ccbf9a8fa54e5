package pty

import (
	"context"
	"fmt"
)

// HoldMode selects how the announcer keeps the pair open after printing
// its path.
type HoldMode string

const (
	// HoldSpin loops forever without a suspension point. It ignores the
	// context and signals; only an external kill ends the process.
	HoldSpin HoldMode = "spin"
	// HoldBlock parks until the context is cancelled, then releases every
	// registered pair.
	HoldBlock HoldMode = "block"
)

// ParseHoldMode converts a config or flag value into a HoldMode.
func ParseHoldMode(s string) (HoldMode, error) {
	switch m := HoldMode(s); m {
	case HoldSpin, HoldBlock:
		return m, nil
	case "":
		return HoldSpin, nil
	default:
		return "", fmt.Errorf("unknown hold mode %q", s)
	}
}

func spin() {
	for {
	}
}

func block(ctx context.Context) {
	<-ctx.Done()
}

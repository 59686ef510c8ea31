package sweeper

import "fmt"

// Mode selects between the read-only and the destructive variant.
type Mode string

const (
	ModeDiscover Mode = "discover"
	ModeTeardown Mode = "teardown"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDiscover, ModeTeardown:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q: must be %q or %q", s, ModeDiscover, ModeTeardown)
}

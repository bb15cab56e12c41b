package merge

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Policy selects how conflicting fields are settled.
type Policy string

const (
	// PolicyKeepSecond resolves every conflict in favor of the second record.
	PolicyKeepSecond Policy = "keep-second"
	// PolicyInteractive asks the Resolver to choose a record for all conflicts.
	PolicyInteractive Policy = "interactive"
)

// ParsePolicy converts a config or flag value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep-second", "keep2nd", "keep_second":
		return PolicyKeepSecond, nil
	case "interactive":
		return PolicyInteractive, nil
	default:
		return "", eris.Errorf("merge: unknown conflict policy %q", s)
	}
}

// Options configures a merge.
type Options struct {
	Policy Policy

	// Verbosity 0 is silent, 1 reports close matches, differing sources and
	// conflicts, 2 also reports ignored metadata differences.
	Verbosity int

	// Resolver settles conflicts under PolicyInteractive. Defaults to a
	// Prompt on stdin/stdout.
	Resolver Resolver

	// Out receives the conflict table when Verbosity > 0 under
	// PolicyKeepSecond. Defaults to io.Discard.
	Out io.Writer
}

func (o Options) withDefaults() Options {
	if o.Policy == "" {
		o.Policy = PolicyKeepSecond
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
	if o.Resolver == nil && o.Policy == PolicyInteractive {
		o.Resolver = NewStdPrompt()
	}
	return o
}

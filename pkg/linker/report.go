package linker

import (
	"go.uber.org/multierr"

	"github.com/arthur-debert/dotlink/pkg/types"
)

// Decision is the action chosen for one mapping.
type Decision string

const (
	// DecisionLink creates the symlink at an absent destination
	DecisionLink Decision = "link"

	// DecisionNoop leaves an already-correct link alone
	DecisionNoop Decision = "ok"

	// DecisionReplace swaps out the occupant under --force
	DecisionReplace Decision = "replace"

	// DecisionConflict reports an occupied destination that needs --force
	DecisionConflict Decision = "conflict"

	// DecisionUnlink removes a link owned by the source tree
	DecisionUnlink Decision = "unlink"

	// DecisionKeep leaves a destination untouched during unlink
	DecisionKeep Decision = "keep"

	// DecisionError marks a mapping that could not be processed
	DecisionError Decision = "error"
)

// Result is the outcome for one mapping.
type Result struct {
	// Mapping is the mapping this result describes
	Mapping types.Mapping `json:"mapping"`

	// State is the destination state observed before any change
	State types.LinkState `json:"state"`

	// IsDir is true when a directory occupies the destination
	IsDir bool `json:"isDir,omitempty"`

	// Decision is the action chosen for this mapping
	Decision Decision `json:"decision"`

	// Applied is true once the decision has been executed
	Applied bool `json:"applied"`

	// BackupPath is where the previous occupant was saved, if any
	BackupPath string `json:"backupPath,omitempty"`

	// Err holds the conflict or filesystem error for this mapping
	Err error `json:"-"`
}

// Report collects the results of one linker pass.
type Report struct {
	// Results holds one entry per mapping, in mapping order
	Results []Result `json:"results"`

	// DryRun records whether the pass was allowed to mutate anything
	DryRun bool `json:"dryRun"`
}

// Changed counts results whose decision mutates the filesystem.
func (r *Report) Changed() int {
	n := 0
	for _, res := range r.Results {
		switch res.Decision {
		case DecisionLink, DecisionReplace, DecisionUnlink:
			n++
		}
	}
	return n
}

// Conflicts returns the results blocked on an operator decision.
func (r *Report) Conflicts() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Decision == DecisionConflict {
			out = append(out, res)
		}
	}
	return out
}

// Err combines every per-mapping error into one. Conflicts count:
// a run with unresolved conflicts is not a success.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return multierr.Combine(errs...)
}

// Success reports whether the pass completed with no conflicts or errors.
func (r *Report) Success() bool {
	return r.Err() == nil
}

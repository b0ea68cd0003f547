// Package mapping turns a dotfiles source tree into link mappings.
//
// Each enumerated file is filtered against ignore patterns, resolved
// through machine variants (base-<variant> names), and assigned a
// destination by the paths mapping rules. Files that survive become
// types.Mapping values; everything else is reported as a Skip.
package mapping

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dotlink/pkg/logging"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/types"
)

// Options controls how mappings are computed
type Options struct {
	// Paths supplies the source root and destination mapping rules
	Paths paths.Paths

	// Ignore holds the merged ignore patterns
	Ignore []string

	// Variant is the active machine variant, empty for none
	Variant string

	// Variants are all known variant names
	Variants []string
}

// Skip records a file that produced no mapping and why
type Skip struct {
	RepoPath string `json:"repoPath"`
	Reason   string `json:"reason"`
}

// Compute filters and resolves the enumerated files into mappings.
// The returned mappings are sorted by repo path. Skips preserve
// enumeration order.
func Compute(files []string, opts Options) ([]types.Mapping, []Skip) {
	logger := logging.GetLogger("mapping")

	var skips []Skip
	type claim struct {
		idx  int
		orig string
	}
	byDest := make(map[string]claim)
	var mappings []types.Mapping

	for _, rel := range files {
		if Ignored(rel, opts.Ignore) {
			logger.Trace().Str("path", rel).Msg("Ignored by pattern")
			skips = append(skips, Skip{RepoPath: rel, Reason: "ignored"})
			continue
		}

		resolved, variant, active := resolveVariant(rel, opts.Variant, opts.Variants)
		if !active {
			logger.Trace().Str("path", rel).Str("variant", variant).Msg("Variant not active")
			skips = append(skips, Skip{RepoPath: rel, Reason: fmt.Sprintf("variant %s not active", variant)})
			continue
		}

		dest, ok := opts.Paths.MapRepoFileToSystem(resolved)
		if !ok {
			logger.Trace().Str("path", rel).Msg("No destination for path")
			skips = append(skips, Skip{RepoPath: rel, Reason: "no destination"})
			continue
		}

		m := types.Mapping{
			RepoPath: resolved,
			Source:   filepath.Join(opts.Paths.SourceRoot(), filepath.FromSlash(rel)),
			Dest:     dest,
			Variant:  variant,
		}

		// A variant file and its plain base resolve to the same
		// destination; the variant-specific one wins
		if prev, exists := byDest[dest]; exists {
			if m.Variant != "" && mappings[prev.idx].Variant == "" {
				skips = append(skips, Skip{RepoPath: prev.orig, Reason: "shadowed by " + rel})
				mappings[prev.idx] = m
				byDest[dest] = claim{idx: prev.idx, orig: rel}
			} else {
				skips = append(skips, Skip{RepoPath: rel, Reason: "shadowed by " + prev.orig})
			}
			continue
		}

		byDest[dest] = claim{idx: len(mappings), orig: rel}
		mappings = append(mappings, m)
	}

	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].RepoPath < mappings[j].RepoPath
	})

	logger.Debug().
		Int("mappings", len(mappings)).
		Int("skipped", len(skips)).
		Msg("Computed mappings")

	return mappings, skips
}

// resolveVariant collapses a base-<variant> name to its base form.
// It returns the resolved path, the variant that matched, and whether
// the file is active under the current variant. Files without a variant
// suffix are always active.
func resolveVariant(rel, active string, variants []string) (string, string, bool) {
	for _, v := range variants {
		if v == "" {
			continue
		}
		suffix := "-" + v
		if !strings.Contains(rel, suffix) {
			continue
		}
		if v != active {
			return rel, v, false
		}
		return strings.Replace(rel, suffix, "", 1), v, true
	}
	return rel, "", true
}

// DeriveVariant picks the active variant for a host by substring match
// against the hostname. Returns empty when nothing matches.
func DeriveVariant(hostname string, variants []string) string {
	host := strings.ToLower(hostname)
	for _, v := range variants {
		if v == "" {
			continue
		}
		if strings.Contains(host, strings.ToLower(v)) {
			return v
		}
	}
	return ""
}

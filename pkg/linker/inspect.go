package linker

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotlink/pkg/types"
)

// inspection is what Lstat told us about a destination.
type inspection struct {
	state  types.LinkState
	isDir  bool
	target string
	err    error
}

// inspect determines the LinkState of a mapping's destination without
// following symlinks.
func inspect(fs types.FS, m types.Mapping) inspection {
	info, err := fs.Lstat(m.Dest)
	if err != nil {
		if os.IsNotExist(err) {
			return inspection{state: types.StateAbsent}
		}
		return inspection{state: types.StateUnknown, err: err}
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return inspection{state: types.StateRegularFile, isDir: info.IsDir()}
	}

	target, err := fs.Readlink(m.Dest)
	if err != nil {
		return inspection{state: types.StateUnknown, err: err}
	}

	if sameTarget(target, m.Source, m.Dest) {
		return inspection{state: types.StateLinked, target: target}
	}
	return inspection{state: types.StateWrongLink, target: target}
}

// sameTarget reports whether a link target refers to the mapped source.
// Relative targets are resolved against the link's directory so both
// spellings of the same path compare equal.
func sameTarget(target, source, linkPath string) bool {
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(linkPath), target)
	}
	return filepath.Clean(target) == filepath.Clean(source)
}

// Inspect reports the destination state of a single mapping.
func Inspect(fs types.FS, m types.Mapping) (types.LinkState, error) {
	ins := inspect(fs, m)
	return ins.state, ins.err
}

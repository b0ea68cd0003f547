// Package testutil provides utilities for testing dotlink components.
//
// Tests build real source trees and destinations under t.TempDir and run
// against the OS filesystem, since most of what dotlink does is symlink
// and file manipulation. The helpers here keep that setup short:
//
//   - SetupSourceTree: declarative creation of a dotfiles tree
//   - CreateFile / CreateDir / CreateSymlink: single-entry setup
//   - AssertSymlink / AssertFileContent / AssertNoFile: state checks
//   - ChecksumTree: digest of a tree for no-mutation assertions
//
// All test data should be defined inline, not in external files, and each
// test should be completely isolated with no shared state.
package testutil

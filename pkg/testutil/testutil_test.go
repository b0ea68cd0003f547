package testutil

import (
	"path/filepath"
	"testing"
)

func TestSetupSourceTree(t *testing.T) {
	root := SetupSourceTree(t, map[string]string{
		"bashrc":               "export PATH",
		"config/nvim/init.vim": "set number",
	})

	AssertFileExists(t, filepath.Join(root, "bashrc"))
	AssertFileContent(t, filepath.Join(root, "config", "nvim", "init.vim"), "set number")
}

func TestCreateSymlinkAndAssert(t *testing.T) {
	SkipOnWindows(t)

	dir := t.TempDir()
	target := CreateFile(t, dir, "target.txt", "content")
	link := filepath.Join(dir, "sub", "link.txt")

	CreateSymlink(t, target, link)

	AssertTrue(t, SymlinkExists(t, link))
	AssertSymlink(t, link, target)
	AssertEqual(t, target, ReadSymlink(t, link))
}

func TestChecksumTree(t *testing.T) {
	SkipOnWindows(t)

	dir := t.TempDir()
	CreateFile(t, dir, "a.txt", "aaa")
	CreateFile(t, dir, "sub/b.txt", "bbb")
	CreateSymlink(t, filepath.Join(dir, "a.txt"), filepath.Join(dir, "a.link"))

	before := ChecksumTree(t, dir)
	again := ChecksumTree(t, dir)
	AssertEqual(t, before, again, "checksum should be stable when nothing changed")

	CreateFile(t, dir, "a.txt", "changed")
	after := ChecksumTree(t, dir)
	if before == after {
		t.Error("checksum should change when file content changes")
	}
}

func TestAssertNoFile(t *testing.T) {
	dir := t.TempDir()
	AssertNoFile(t, filepath.Join(dir, "missing.txt"))
}

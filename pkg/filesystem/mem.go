package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// memNode is one entry in the in-memory tree
type memNode struct {
	mode    fs.FileMode
	modTime time.Time
	content []byte
	link    string
}

func (n *memNode) info(name string) fs.FileInfo {
	return &memInfo{
		name:    name,
		size:    int64(len(n.content)),
		mode:    n.mode,
		modTime: n.modTime,
	}
}

type memInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (i *memInfo) Name() string       { return i.name }
func (i *memInfo) Size() int64        { return i.size }
func (i *memInfo) Mode() fs.FileMode  { return i.mode }
func (i *memInfo) ModTime() time.Time { return i.modTime }
func (i *memInfo) IsDir() bool        { return i.mode.IsDir() }
func (i *memInfo) Sys() interface{}   { return nil }

// Mem implements types.FS with in-memory storage. Tests use it to
// provoke filesystem failures deterministically; inject them with
// FailWith.
type Mem struct {
	mu    sync.RWMutex
	nodes map[string]*memNode
	fail  map[string]error
}

// NewMem creates an empty in-memory filesystem rooted at /.
func NewMem() *Mem {
	return &Mem{
		nodes: map[string]*memNode{
			"/": {mode: fs.ModeDir | 0755, modTime: time.Now()},
		},
		fail: make(map[string]error),
	}
}

// FailWith makes every op call on path return err. Op is the FS
// method name, such as "Symlink" or "Rename".
func (m *Mem) FailWith(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op+" "+filepath.Clean(path)] = err
}

func (m *Mem) failure(op, path string) error {
	return m.fail[op+" "+filepath.Clean(path)]
}

// resolve follows symlinks from path to the final node. Relative link
// targets resolve against the link's directory.
func (m *Mem) resolve(path string) (*memNode, string, error) {
	path = filepath.Clean(path)
	for i := 0; i < 16; i++ {
		node, ok := m.nodes[path]
		if !ok {
			return nil, path, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
		}
		if node.mode&fs.ModeSymlink == 0 {
			return node, path, nil
		}
		if filepath.IsAbs(node.link) {
			path = filepath.Clean(node.link)
		} else {
			path = filepath.Join(filepath.Dir(path), node.link)
		}
	}
	return nil, path, &fs.PathError{Op: "stat", Path: path, Err: errors.New("too many levels of symbolic links")}
}

// requireDir checks that the parent directory of path exists
func (m *Mem) requireDir(op, path string) error {
	dir := filepath.Dir(filepath.Clean(path))
	node, ok := m.nodes[dir]
	if !ok {
		return &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
	}
	if !node.mode.IsDir() {
		return &fs.PathError{Op: op, Path: path, Err: errors.New("not a directory")}
	}
	return nil
}

func (m *Mem) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("Stat", name); err != nil {
		return nil, err
	}
	node, path, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	return node.info(filepath.Base(path)), nil
}

func (m *Mem) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("ReadFile", name); err != nil {
		return nil, err
	}
	node, path, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	if node.mode.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}
	out := make([]byte, len(node.content))
	copy(out, node.content)
	return out, nil
}

func (m *Mem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("WriteFile", name); err != nil {
		return err
	}
	path := filepath.Clean(name)

	// Writing through a symlink lands on its target
	if node, ok := m.nodes[path]; ok && node.mode&fs.ModeSymlink != 0 {
		if _, resolved, err := m.resolve(path); err == nil {
			path = resolved
		}
	}

	if err := m.requireDir("open", path); err != nil {
		return err
	}
	if node, ok := m.nodes[path]; ok && node.mode.IsDir() {
		return &fs.PathError{Op: "open", Path: path, Err: errors.New("is a directory")}
	}

	content := make([]byte, len(data))
	copy(content, data)
	m.nodes[path] = &memNode{mode: perm, modTime: time.Now(), content: content}
	return nil
}

func (m *Mem) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("MkdirAll", path); err != nil {
		return err
	}
	clean := filepath.Clean(path)
	parts := strings.Split(clean, string(filepath.Separator))
	current := "/"
	for _, part := range parts {
		if part == "" {
			continue
		}
		current = filepath.Join(current, part)
		if node, ok := m.nodes[current]; ok {
			if !node.mode.IsDir() {
				return &fs.PathError{Op: "mkdir", Path: current, Err: errors.New("not a directory")}
			}
			continue
		}
		m.nodes[current] = &memNode{mode: fs.ModeDir | perm, modTime: time.Now()}
	}
	return nil
}

func (m *Mem) Symlink(oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("Symlink", newname); err != nil {
		return err
	}
	path := filepath.Clean(newname)
	if err := m.requireDir("symlink", path); err != nil {
		return err
	}
	if _, ok := m.nodes[path]; ok {
		return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: fs.ErrExist}
	}
	m.nodes[path] = &memNode{mode: fs.ModeSymlink | 0777, modTime: time.Now(), link: oldname}
	return nil
}

func (m *Mem) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("Readlink", name); err != nil {
		return "", err
	}
	node, ok := m.nodes[filepath.Clean(name)]
	if !ok {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrNotExist}
	}
	if node.mode&fs.ModeSymlink == 0 {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrInvalid}
	}
	return node.link, nil
}

func (m *Mem) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("Remove", name); err != nil {
		return err
	}
	path := filepath.Clean(name)
	node, ok := m.nodes[path]
	if !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	if node.mode.IsDir() {
		prefix := path + string(filepath.Separator)
		for p := range m.nodes {
			if strings.HasPrefix(p, prefix) {
				return &fs.PathError{Op: "remove", Path: name, Err: errors.New("directory not empty")}
			}
		}
	}
	delete(m.nodes, path)
	return nil
}

func (m *Mem) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("Rename", oldpath); err != nil {
		return err
	}
	oldClean := filepath.Clean(oldpath)
	newClean := filepath.Clean(newpath)

	node, ok := m.nodes[oldClean]
	if !ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	if err := m.requireDir("rename", newClean); err != nil {
		return err
	}

	m.nodes[newClean] = node
	delete(m.nodes, oldClean)

	// Carry any children along
	prefix := oldClean + string(filepath.Separator)
	moves := make(map[string]string)
	for p := range m.nodes {
		if strings.HasPrefix(p, prefix) {
			moves[p] = filepath.Join(newClean, strings.TrimPrefix(p, prefix))
		}
	}
	for from, to := range moves {
		m.nodes[to] = m.nodes[from]
		delete(m.nodes, from)
	}
	return nil
}

func (m *Mem) Lstat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("Lstat", name); err != nil {
		return nil, err
	}
	path := filepath.Clean(name)
	node, ok := m.nodes[path]
	if !ok {
		return nil, &fs.PathError{Op: "lstat", Path: name, Err: fs.ErrNotExist}
	}
	return node.info(filepath.Base(path)), nil
}

package tui

import (
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Entry is one line of the file browser
type Entry struct {
	Name string
	Dir  bool
}

// IsMIDIFile reports whether name looks like a Standard MIDI File
func IsMIDIFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".mid" || ext == ".midi"
}

// ReadListing lists dir: ".." unless dir is the root, then sub-directories,
// then MIDI files, each group sorted case-insensitively. Hidden entries and
// other files are skipped.
func ReadListing(fsys fs.FS, dir string) ([]Entry, error) {
	items, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []Entry
	for _, it := range items {
		name := it.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		switch {
		case it.IsDir():
			dirs = append(dirs, Entry{Name: name, Dir: true})
		case IsMIDIFile(name):
			files = append(files, Entry{Name: name})
		}
	}
	byName := func(list []Entry) {
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	byName(dirs)
	byName(files)

	var out []Entry
	if dir != "." {
		out = append(out, Entry{Name: "..", Dir: true})
	}
	out = append(out, dirs...)
	return append(out, files...), nil
}

// Browser walks a directory tree one listing at a time
type Browser struct {
	fsys    fs.FS
	dir     string
	entries []Entry
}

// NewBrowser opens the root of fsys
func NewBrowser(fsys fs.FS) (*Browser, error) {
	b := &Browser{fsys: fsys}
	if err := b.Open("."); err != nil {
		return nil, err
	}
	return b, nil
}

// Open replaces the listing with dir
func (b *Browser) Open(dir string) error {
	entries, err := ReadListing(b.fsys, dir)
	if err != nil {
		return err
	}
	b.dir = dir
	b.entries = entries
	return nil
}

// Dir returns the directory being listed
func (b *Browser) Dir() string {
	return b.dir
}

// Entries returns the current listing
func (b *Browser) Entries() []Entry {
	return b.entries
}

// Path returns the fs path of entry i
func (b *Browser) Path(i int) string {
	return path.Join(b.dir, b.entries[i].Name)
}

// Activate enters the directory at index i, or returns the path of the file
// there. changed reports whether the listing was replaced.
func (b *Browser) Activate(i int) (file string, changed bool, err error) {
	if i < 0 || i >= len(b.entries) {
		return "", false, nil
	}
	e := b.entries[i]
	if !e.Dir {
		return b.Path(i), false, nil
	}
	next := path.Join(b.dir, e.Name) // ".." is cleaned by Join
	if err := b.Open(next); err != nil {
		return "", false, err
	}
	return "", true, nil
}

// Locate opens the directory holding p and returns the index of p in it,
// or -1 if it is not listed.
func (b *Browser) Locate(p string) int {
	if p == "" || !fs.ValidPath(p) {
		return -1
	}
	if err := b.Open(path.Dir(p)); err != nil {
		return -1
	}
	base := path.Base(p)
	for i, e := range b.entries {
		if e.Name == base {
			return i
		}
	}
	return -1
}

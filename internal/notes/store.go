package notes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Store locates and reads the note file attached to a task. Notes are flat
// files named <uuid>.<ext> under a single directory; a task without a note
// simply has no file.
type Store struct {
	Dir string
	Ext string
}

func NewStore(dir, ext string) *Store {
	return &Store{Dir: dir, Ext: ext}
}

// Path returns the note file path for a task uuid.
func (s *Store) Path(uuid string) string {
	return filepath.Join(s.Dir, uuid+"."+s.Ext)
}

// Read returns the note contents for a task uuid. A missing file is not an
// error: tasks without notes read as the empty string.
func (s *Store) Read(uuid string) (string, error) {
	content, err := os.ReadFile(s.Path(uuid))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read note for %s: %w", uuid, err)
	}
	return string(content), nil
}

// EnsureDir creates the notes directory if it does not already exist.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.Dir, 0755)
}

// HasContent reports whether the note for the given uuid renders to any
// visible text. Whitespace-only files and files that parse to an empty
// markdown document both count as empty, which drives note-tag syncing after
// an edit.
func (s *Store) HasContent(uuid string) (bool, error) {
	content, err := s.Read(uuid)
	if err != nil {
		return false, err
	}
	return markdownHasText(content), nil
}

func markdownHasText(markdown string) bool {
	source := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	found := false
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if n.Kind() == ast.KindText {
			if len(n.(*ast.Text).Segment.Value(source)) > 0 {
				found = true
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})

	return found
}

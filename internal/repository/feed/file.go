package feed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/oshokin/sparkle-appcast/internal/appcast"
	"github.com/oshokin/sparkle-appcast/internal/domain/release"
	"github.com/oshokin/sparkle-appcast/internal/logger"
)

// Repository defines persistence operations for the appcast document.
type Repository interface {
	Load(ctx context.Context) (*etree.Document, error)
	Save(ctx context.Context, doc *etree.Document) error
}

// FileRepository reads and rewrites a single appcast XML file.
type FileRepository struct {
	// path is the filesystem location of the appcast.
	path string
	// namespaces are declared on the root element before writing.
	namespaces appcast.Namespaces
	// atomic routes both write passes through a temporary file.
	atomic bool
}

// Option configures a FileRepository.
type Option func(*FileRepository)

const (
	// declarationTarget is the processing instruction target of the XML declaration.
	declarationTarget = "xml"
	// declaration is written at the top of every saved appcast.
	declaration = `version="1.0" encoding="utf-8"`

	defaultFileMode os.FileMode = 0o644
)

// ErrNotFound is returned when the appcast file does not exist.
var ErrNotFound = errors.New("appcast not found")

// WithNamespaces sets the namespaces declared on save. Defaults to appcast.DefaultNamespaces.
func WithNamespaces(ns appcast.Namespaces) Option {
	return func(r *FileRepository) {
		r.namespaces = ns
	}
}

// WithAtomicWrite makes Save write to a temporary file in the target directory
// and rename it over the appcast once both passes succeed.
func WithAtomicWrite() Option {
	return func(r *FileRepository) {
		r.atomic = true
	}
}

// NewFileRepository creates a repository for the appcast at path.
func NewFileRepository(path string, opts ...Option) *FileRepository {
	r := &FileRepository{
		path:       filepath.Clean(path),
		namespaces: appcast.DefaultNamespaces(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Path returns the appcast location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load parses the appcast from disk.
func (r *FileRepository) Load(ctx context.Context) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(r.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}

		return nil, fmt.Errorf("decode appcast: %w", err)
	}

	logger.DebugKV(ctx, "Loaded appcast", "path", r.path)

	return doc, nil
}

// Save writes doc to disk, then normalizes trailing whitespace of the written file.
func (r *FileRepository) Save(ctx context.Context, doc *etree.Document) error {
	root := doc.Root()
	if root == nil {
		return &release.StructureError{Element: "rss"}
	}

	setDeclaration(doc)
	r.namespaces.Bind(root)

	if !r.atomic {
		return writeFile(doc, r.path, fileMode(r.path))
	}

	return r.saveAtomic(ctx, doc)
}

func (r *FileRepository) saveAtomic(ctx context.Context, doc *etree.Document) error {
	mode := fileMode(r.path)

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary appcast: %w", err)
	}

	tmpPath := tmp.Name()

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temporary appcast: %w", err)
	}

	if err = writeFile(doc, tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err = os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace appcast: %w", err)
	}

	logger.DebugKV(ctx, "Replaced appcast atomically", "path", r.path)

	return nil
}

// writeFile performs the structural write followed by the normalization pass.
func writeFile(doc *etree.Document, path string, mode os.FileMode) error {
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("write appcast: %w", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read written appcast: %w", err)
	}

	if err = os.WriteFile(path, appcast.NormalizeWhitespace(contents), mode); err != nil {
		return fmt.Errorf("normalize appcast: %w", err)
	}

	// os.WriteFile keeps the mode of an existing file.
	if err = os.Chmod(path, mode); err != nil {
		return fmt.Errorf("set appcast permissions: %w", err)
	}

	return nil
}

// setDeclaration replaces any XML declaration with a utf-8 one at the top of doc.
func setDeclaration(doc *etree.Document) {
	for i := 0; i < len(doc.Child); i++ {
		if pi, ok := doc.Child[i].(*etree.ProcInst); ok && pi.Target == declarationTarget {
			doc.RemoveChildAt(i)
			i--
		}
	}

	doc.InsertChildAt(0, etree.NewProcInst(declarationTarget, declaration))

	if len(doc.Child) > 1 {
		if text, ok := doc.Child[1].(*etree.CharData); ok && text.IsWhitespace() {
			return
		}
	}

	doc.InsertChildAt(1, etree.NewText("\n"))
}

// fileMode returns the permissions of an existing appcast, or the default for a new one.
func fileMode(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return defaultFileMode
	}

	return info.Mode().Perm()
}

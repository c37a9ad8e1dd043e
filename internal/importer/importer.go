// Package importer loads text files from disk into the note store.
package importer

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"chestnut/internal/domain"
)

// Report summarizes one import run.
type Report struct {
	Imported int
	Skipped  int
	Failed   int
}

// Importer walks folders and creates one note per supported file. Files that
// cannot be read are skipped with a warning; a re-import of the same folder
// appends new notes and never touches existing ones.
type Importer struct {
	store      domain.NoteStore
	extensions map[string]struct{}
	log        *slog.Logger
}

// New creates an Importer accepting the given file extensions (with leading
// dots, e.g. ".md").
func New(store domain.NoteStore, extensions []string, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return &Importer{store: store, extensions: exts, log: log}
}

// ImportFolder recursively imports every supported file under root. Note names
// are paths relative to root.
func (im *Importer) ImportFolder(ctx context.Context, root string) (Report, error) {
	var rep Report
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := im.extensions[strings.ToLower(filepath.Ext(path))]; !ok {
			rep.Skipped++
			return nil
		}
		name, relErr := filepath.Rel(root, path)
		if relErr != nil {
			name = path
		}
		if im.importFile(ctx, name, path) {
			rep.Imported++
		} else {
			rep.Failed++
		}
		return nil
	})
	return rep, err
}

// ImportGlob imports files matching a doublestar pattern such as
// "journal/**/*.md". The extension filter does not apply here; the pattern is
// taken as the user's explicit choice.
func (im *Importer) ImportGlob(ctx context.Context, pattern string) (Report, error) {
	base, rest := doublestar.SplitPattern(pattern)
	matches, err := doublestar.Glob(os.DirFS(base), rest)
	if err != nil {
		return Report{}, err
	}
	var rep Report
	for _, m := range matches {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		path := filepath.Join(base, m)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			rep.Skipped++
			continue
		}
		if im.importFile(ctx, m, path) {
			rep.Imported++
		} else {
			rep.Failed++
		}
	}
	return rep, nil
}

func (im *Importer) importFile(ctx context.Context, name, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		im.log.Warn("failed to read file", "path", path, "error", err)
		return false
	}
	note, err := im.store.Create(ctx, name, string(data))
	if err != nil {
		im.log.Warn("failed to store note", "path", path, "error", err)
		return false
	}
	im.log.Debug("imported note", "note", note.ID, "name", name)
	return true
}

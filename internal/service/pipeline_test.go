package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chestnut/internal/answer"
	"chestnut/internal/importer"
	"chestnut/internal/ranker"
	"chestnut/internal/scheduler"
	"chestnut/internal/store/memory"
	"chestnut/internal/summarizer"
)

// echoCompleter summarizes by echoing the note content and answers with a
// fixed reply, counting every call.
type echoCompleter struct {
	calls int
}

func (c *echoCompleter) Name() string { return "echo" }

func (c *echoCompleter) Complete(ctx context.Context, instruction, prompt string) (string, error) {
	c.calls++
	return "echo: " + prompt, nil
}

func newTestPipeline(t *testing.T) (*Pipeline, *memory.Store, *echoCompleter) {
	t.Helper()
	store := memory.NewStore()
	c := &echoCompleter{}
	imp := importer.New(store, []string{".txt", ".md"}, nil)
	sched := scheduler.New(store, summarizer.New(c), nil)
	p := New(store, imp, sched, ranker.NewOverlap(), answer.New(c), nil)
	return p, store, c
}

func TestAskWithNoSummarizedNotesSkipsModel(t *testing.T) {
	p, store, c := newTestPipeline(t)
	ctx := context.Background()

	// A note exists but has no summary; the model must not be called.
	_, err := store.Create(ctx, "a.txt", "content")
	require.NoError(t, err)

	ans, err := p.Ask(ctx, "anything?", 3)
	require.NoError(t, err)
	assert.True(t, ans.NoNotes)
	assert.Empty(t, ans.Text)
	assert.Zero(t, c.calls)
}

func TestAskRejectsNonPositiveTopK(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	_, err := p.Ask(context.Background(), "q", 0)
	assert.Error(t, err)
}

func TestImportSummarizeAsk(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "paris.txt"), []byte("I went to Paris last spring"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "groceries.txt"), []byte("Grocery list: milk, eggs"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.png"), []byte{0x89}, 0o644))

	imp, err := p.ImportFolder(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, imp.Imported)
	assert.Equal(t, 1, imp.Skipped)

	rep, err := p.SummarizeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Succeeded)

	notes, err := p.ListSummaries(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 2)

	ans, err := p.Ask(ctx, "What did I write about Paris?", 1)
	require.NoError(t, err)
	require.False(t, ans.NoNotes)
	require.Len(t, ans.Selected, 1)
	assert.Equal(t, "paris.txt", ans.Selected[0].Note.Name)
	assert.Contains(t, *ans.Selected[0].Note.Summary, "Paris")
	assert.Contains(t, ans.Text, "echo:")
}

func TestSummarizeAllTwiceIsIdempotent(t *testing.T) {
	p, store, c := newTestPipeline(t)
	ctx := context.Background()

	_, err := store.Create(ctx, "a.txt", "content")
	require.NoError(t, err)

	rep, err := p.SummarizeAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, rep.Processed)
	calls := c.calls

	rep, err = p.SummarizeAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, rep.Processed)
	assert.Equal(t, calls, c.calls)
}

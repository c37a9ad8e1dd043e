package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chestnut/internal/domain"
	"chestnut/internal/store/memory"
	"chestnut/internal/summarizer"
)

// scriptedCompleter fails for prompts containing any of its poison strings
// and records the order of prompts it saw.
type scriptedCompleter struct {
	poison  map[string]string
	prompts []string
}

func (c *scriptedCompleter) Name() string { return "scripted" }

func (c *scriptedCompleter) Complete(ctx context.Context, instruction, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if reason, ok := c.poison[prompt]; ok {
		return "", errors.New(reason)
	}
	return "summary of " + prompt, nil
}

func fixture(t *testing.T, contents ...string) (*memory.Store, []domain.Note) {
	t.Helper()
	store := memory.NewStore()
	var notes []domain.Note
	for i, c := range contents {
		n, err := store.Create(context.Background(), fmt.Sprintf("n%d.txt", i), c)
		require.NoError(t, err)
		notes = append(notes, n)
	}
	return store, notes
}

func TestRunAllSummarizesInOrder(t *testing.T) {
	store, notes := fixture(t, "one", "two", "three")
	c := &scriptedCompleter{}
	sched := New(store, summarizer.New(c), nil)

	rep, err := sched.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 3, Succeeded: 3}, rep)
	assert.Equal(t, []string{"one", "two", "three"}, c.prompts)

	for _, n := range notes {
		got, err := store.Get(context.Background(), n.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Summary)
		assert.Equal(t, "summary of "+n.Content, *got.Summary)
	}
}

func TestRunAllNoCandidates(t *testing.T) {
	store, _ := fixture(t)
	c := &scriptedCompleter{}
	sched := New(store, summarizer.New(c), nil)

	rep, err := sched.RunAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Processed)
	assert.Empty(t, c.prompts)
}

func TestRunFirstNCapsBatch(t *testing.T) {
	store, notes := fixture(t, "one", "two", "three")
	c := &scriptedCompleter{}
	sched := New(store, summarizer.New(c), nil)

	rep, err := sched.RunFirstN(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Processed)
	assert.Equal(t, []string{"one", "two"}, c.prompts)

	got, err := store.Get(context.Background(), notes[2].ID)
	require.NoError(t, err)
	assert.Nil(t, got.Summary)
}

func TestRunFirstNLargerThanAvailable(t *testing.T) {
	store, _ := fixture(t, "one", "two")
	c := &scriptedCompleter{}
	sched := New(store, summarizer.New(c), nil)

	rep, err := sched.RunFirstN(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 2, Succeeded: 2}, rep)
}

func TestRunFirstNRejectsNonPositive(t *testing.T) {
	store, _ := fixture(t)
	sched := New(store, summarizer.New(&scriptedCompleter{}), nil)
	_, err := sched.RunFirstN(context.Background(), 0)
	assert.Error(t, err)
}

func TestFailureDoesNotAbortBatch(t *testing.T) {
	store, notes := fixture(t, "one", "two", "three")
	c := &scriptedCompleter{poison: map[string]string{"two": "model exploded"}}
	sched := New(store, summarizer.New(c), nil)

	rep, err := sched.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 3, Succeeded: 2, Failed: 1}, rep)

	got, err := store.Get(context.Background(), notes[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got.Summary)
	assert.True(t, got.SummaryFailed())
	assert.Equal(t, domain.FailedSummaryPrefix+"model exploded", *got.Summary)

	// Later notes were still processed.
	last, err := store.Get(context.Background(), notes[2].ID)
	require.NoError(t, err)
	assert.True(t, last.Summarized())
}

func TestFailedNoteRetriesAfterReset(t *testing.T) {
	store, notes := fixture(t, "flaky")
	c := &scriptedCompleter{poison: map[string]string{"flaky": "timeout"}}
	sched := New(store, summarizer.New(c), nil)

	_, err := sched.RunAll(context.Background())
	require.NoError(t, err)
	got, _ := store.Get(context.Background(), notes[0].ID)
	require.True(t, got.SummaryFailed())

	// Error-marked notes stay out of the next pass until reset.
	rep, err := sched.RunAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Processed)

	reset, err := store.ResetFailedSummaries(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, reset)

	c.poison = nil
	rep, err = sched.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 1, Succeeded: 1}, rep)

	got, _ = store.Get(context.Background(), notes[0].ID)
	assert.True(t, got.Summarized())
}

func TestRunOneNotFound(t *testing.T) {
	store, _ := fixture(t)
	sched := New(store, summarizer.New(&scriptedCompleter{}), nil)
	_, err := sched.RunOne(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestRunOneOverwritesExistingSummary(t *testing.T) {
	store, notes := fixture(t, "text")
	c := &scriptedCompleter{}
	sched := New(store, summarizer.New(c), nil)

	require.NoError(t, store.UpdateSummary(context.Background(), notes[0].ID, "stale summary"))

	rep, err := sched.RunOne(context.Background(), notes[0].ID)
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 1, Succeeded: 1}, rep)

	got, _ := store.Get(context.Background(), notes[0].ID)
	require.NotNil(t, got.Summary)
	assert.Equal(t, "summary of text", *got.Summary)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotesRenderMarkdown(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	note, err := s.notes.Create(ctx, testUser, NoteInput{
		Title: "Groceries",
		Body:  "---\ntags: [shopping]\n---\n- milk\n- dates\n",
	})
	require.NoError(t, err)
	assert.Contains(t, note.HTML, "<li>milk</li>")
	assert.Equal(t, []string{"shopping"}, note.Tags)

	_, err = s.notes.Create(ctx, testUser, NoteInput{Title: "Pinned", Body: "top", Pinned: true})
	require.NoError(t, err)

	notes, err := s.notes.Notes(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Pinned", notes[0].Title)
	assert.Contains(t, notes[1].HTML, "<li>dates</li>")

	updated, err := s.notes.Update(ctx, testUser, note.ID, NoteInput{Title: "Groceries", Body: "**done**"})
	require.NoError(t, err)
	assert.Contains(t, updated.HTML, "<strong>done</strong>")
	assert.Empty(t, updated.Tags)

	count, err := s.notes.Count(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.notes.Delete(ctx, testUser, note.ID))
	_, err = s.notes.ByID(ctx, testUser, note.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.notes.Create(ctx, testUser, NoteInput{Body: "no title"})
	assert.ErrorIs(t, err, ErrValidation)
}

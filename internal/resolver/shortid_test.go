package resolver

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/kanban/pkg/board"
)

func testBoard() board.Board {
	b := board.Default()
	b.Tasks = []board.Task{
		{ID: "5f1c2a90-aaaa-4bbb-8ccc-000000000001", Title: "one", ColumnID: "todo"},
		{ID: "5f1c2a90-aaaa-4bbb-8ccc-000000000002", Title: "two", ColumnID: "todo"},
		{ID: "9e77d0c1-aaaa-4bbb-8ccc-000000000003", Title: "three", ColumnID: "done"},
	}
	b.Columns[0].TaskIDs = []string{b.Tasks[0].ID, b.Tasks[1].ID}
	b.Columns[3].TaskIDs = []string{b.Tasks[2].ID}
	return b
}

func TestResolveTaskID(t *testing.T) {
	b := testBoard()

	t.Run("exact id", func(t *testing.T) {
		id, err := ResolveTaskID(b, b.Tasks[0].ID)
		require.NoError(t, err)
		assert.Equal(t, b.Tasks[0].ID, id)
	})

	t.Run("unique prefix", func(t *testing.T) {
		id, err := ResolveTaskID(b, "9e77")
		require.NoError(t, err)
		assert.Equal(t, b.Tasks[2].ID, id)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := ResolveTaskID(b, "9e7")
		assert.ErrorContains(t, err, "at least 4 characters")
	})

	t.Run("ambiguous", func(t *testing.T) {
		_, err := ResolveTaskID(b, "5f1c2a90")
		require.Error(t, err)
		assert.True(t, IsAmbiguousError(err))
	})

	t.Run("no match", func(t *testing.T) {
		_, err := ResolveTaskID(b, "ffff")
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
		assert.Equal(t, "no tasks found matching 'ffff'", err.Error())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ResolveTaskID(b, "")
		assert.Error(t, err)
	})
}

func TestResolveColumnID(t *testing.T) {
	b := testBoard()

	tests := []struct {
		ref     string
		want    string
		wantErr func(error) bool
	}{
		{ref: "todo", want: "todo"},
		{ref: "in progress", want: "inprogress"},
		{ref: "DONE", want: "done"},
		{ref: "rev", want: "review"},
		{ref: "x", wantErr: IsNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ResolveColumnID(b, tt.ref)
			if tt.wantErr != nil {
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("ambiguous prefix", func(t *testing.T) {
		b := board.Default()
		b.Columns = append(b.Columns, board.Column{ID: "doing", Title: "Doing", Color: board.ColorBlue, TaskIDs: []string{}})
		_, err := ResolveColumnID(b, "do")
		assert.True(t, IsAmbiguousError(err))
	})
}

func TestFormatAmbiguousError(t *testing.T) {
	matches := make([]string, 12)
	for i := range matches {
		matches[i] = fmt.Sprintf("id-%02d", i)
	}
	msg := FormatAmbiguousError(&AmbiguousError{Kind: "task", ShortID: "id-", Matches: matches})

	assert.True(t, strings.HasPrefix(msg, "Error: ambiguous task reference 'id-' matches 12 tasks:\n"))
	assert.Contains(t, msg, "  id-09\n")
	assert.NotContains(t, msg, "id-10\n")
	assert.Contains(t, msg, "...and 2 more")
	assert.True(t, strings.HasSuffix(msg, "uniquely identify the task."))
}

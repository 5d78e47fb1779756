package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/kanban/pkg/board"
)

func plain(t *testing.T) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out, errOut bytes.Buffer
	return New(&out, &errOut), &out, &errOut
}

func TestError(t *testing.T) {
	t.Run("returns error with title", func(t *testing.T) {
		p, _, errOut := plain(t)
		err := p.Error("Test Error", "This is a test error", []string{})
		require.Error(t, err)
		require.Equal(t, "Test Error", err.Error())
		assert.Equal(t, "Test Error\n\nThis is a test error\n", errOut.String())
	})

	t.Run("single suggestion printed bare", func(t *testing.T) {
		p, _, errOut := plain(t)
		p.Error("Test Error", "Explanation", []string{"Try this fix"})
		assert.Contains(t, errOut.String(), "\nTry this fix\n")
		assert.NotContains(t, errOut.String(), "Either:")
	})

	t.Run("multiple suggestions are numbered", func(t *testing.T) {
		p, _, errOut := plain(t)
		p.Error("Test Error", "Explanation", []string{"First option", "Second option"})
		assert.Contains(t, errOut.String(), "Either:\n  1. First option\n  2. Second option\n")
	})
}

func TestErrorWithContext(t *testing.T) {
	p, out, errOut := plain(t)
	err := p.ErrorWithContext("Task not found", "", map[string]string{
		"Task":     "abc",
		"Instance": "default",
	}, nil)

	require.Equal(t, "Task not found", err.Error())
	assert.Equal(t, "Task not found\n\n\n  Instance: default\n  Task: abc\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestMessages(t *testing.T) {
	p, out, errOut := plain(t)

	p.Success("created %s\n", "t1")
	p.Success("✓ already prefixed\n")
	p.Info("plain %d\n", 1)
	p.Step("loading\n")
	p.Warning("careful\n")

	assert.Equal(t, "✓ created t1\n✓ already prefixed\nplain 1\n→ loading\n", out.String())
	assert.Equal(t, "⚠️  careful\n", errOut.String())
}

func TestColumn(t *testing.T) {
	p, out, _ := plain(t)
	p.Column(board.ColorGreen, "%s", "Done")
	p.Column("bg-unknown", "%s", "Other")
	assert.Equal(t, "DoneOther", out.String())
}

package ocr

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traincal/internal/store"
)

func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestCommandOCR(t *testing.T) {
	requireTool(t, "cat")
	text, err := CommandOCR{Argv: []string{"cat", "{}"}}.Text(context.Background(), []byte("RESERVATION NUMBER 1D4433"))
	require.NoError(t, err)
	assert.Equal(t, "RESERVATION NUMBER 1D4433", text)
}

func TestCommandOCR_Failures(t *testing.T) {
	requireTool(t, "sh")
	ctx := context.Background()

	_, err := CommandOCR{}.Text(ctx, nil)
	assert.Error(t, err)

	_, err = CommandOCR{Argv: []string{"sh", "-c", "echo broken pdf >&2; exit 3"}}.Text(ctx, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pdf")

	_, err = CommandOCR{Argv: []string{"sh", "-c", "echo '  '"}}.Text(ctx, []byte("x"))
	assert.True(t, errors.Is(err, ErrEmptyText))
}

type countingEngine struct {
	calls int
	text  string
	err   error
}

func (e *countingEngine) Text(context.Context, []byte) (string, error) {
	e.calls++
	return e.text, e.err
}

func TestCachedOCR(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(filepath.Join(t.TempDir(), "ocr.db"))
	require.NoError(t, err)
	defer s.Close()

	engine := &countingEngine{text: "ticket text"}
	c := CachedOCR{Engine: engine, Cache: s}

	for i := 0; i < 3; i++ {
		text, err := c.Text(ctx, "msg-1/0", []byte("pdf"))
		require.NoError(t, err)
		assert.Equal(t, "ticket text", text)
	}
	assert.Equal(t, 1, engine.calls)
}

func TestCachedOCR_FailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(filepath.Join(t.TempDir(), "ocr.db"))
	require.NoError(t, err)
	defer s.Close()

	engine := &countingEngine{err: ErrEmptyText}
	c := CachedOCR{Engine: engine, Cache: s}

	_, err = c.Text(ctx, "msg-2/0", nil)
	assert.True(t, errors.Is(err, ErrEmptyText))
	_, err = c.Text(ctx, "msg-2/0", nil)
	assert.Error(t, err)
	assert.Equal(t, 2, engine.calls)
}

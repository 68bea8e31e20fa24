package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{"type":"summary","summary":"earlier work"}
{"type":"user","message":{"role":"user","content":"hi"}}
{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"hello"}]}}
not json at all
{"type":"user","isMeta":true,"message":{"content":"<command>"}}
{"type":"assistant","isSidechain":true}

{"type":"user","message":{"role":"user","content":"again"}}
`

func TestCountTurns(t *testing.T) {
	n, err := CountTurns(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = CountTurns(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCountTurns_LongLine(t *testing.T) {
	long := `{"type":"assistant","message":{"content":"` + strings.Repeat("x", 200_000) + `"}}` + "\n"
	n, err := CountTurns(strings.NewReader(long + long))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCounter_Depth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c := NewCounter(8, time.Minute)
	d, ok, err := c.Depth(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, d)
	assert.Equal(t, 1, c.Len())

	d, ok, err = c.Depth(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, d)
	assert.Equal(t, 1, c.Len(), "unchanged file is served from cache")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"type":"assistant"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	d, _, err = c.Depth(path)
	require.NoError(t, err)
	assert.Equal(t, 4, d, "growing file changes the cache key")
}

func TestCounter_Unavailable(t *testing.T) {
	c := NewCounter(0, time.Minute)

	_, ok, err := c.Depth("")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Depth(filepath.Join(t.TempDir(), "missing.jsonl"))
	require.NoError(t, err)
	assert.False(t, ok)
}

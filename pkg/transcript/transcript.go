// Package transcript turns a Claude Code JSONL transcript into a single
// depth figure: the number of conversation entries it holds.
package transcript

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// maxLineSize bounds a single transcript line; tool outputs can be large.
const maxLineSize = 16 << 20

// entry is the subset of a transcript line that matters for depth.
type entry struct {
	Type        string `json:"type"`
	IsSidechain bool   `json:"isSidechain"`
	IsMeta      bool   `json:"isMeta"`
}

// CountTurns returns the number of user and assistant entries in r.
// Sidechain (subagent) and meta entries are ignored, as are malformed lines.
func CountTurns(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	turns := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var e entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if e.IsSidechain || e.IsMeta {
			continue
		}
		if e.Type == "user" || e.Type == "assistant" {
			turns++
		}
	}

	if err := scanner.Err(); err != nil {
		return turns, fmt.Errorf("scan transcript: %w", err)
	}
	return turns, nil
}

// Counter computes transcript depth with a cache keyed on path, size and
// modification time, so repeated hooks in one turn do not rescan the file.
type Counter struct {
	cache *expirable.LRU[string, int]
}

// NewCounter returns a Counter caching up to size results for ttl.
func NewCounter(size int, ttl time.Duration) *Counter {
	if size <= 0 {
		size = 64
	}
	return &Counter{cache: expirable.NewLRU[string, int](size, nil, ttl)}
}

// Depth returns the turn count of the transcript at path. ok is false when
// the path is empty or the file does not exist; the depth is then unknown
// rather than zero.
func (c *Counter) Depth(path string) (depth int, ok bool, err error) {
	if path == "" {
		return 0, false, nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("stat transcript %s: %w", path, err)
	}

	key := path + "|" + strconv.FormatInt(info.Size(), 10) + "|" + strconv.FormatInt(info.ModTime().UnixNano(), 10)
	if d, hit := c.cache.Get(key); hit {
		return d, true, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, false, fmt.Errorf("open transcript %s: %w", path, err)
	}
	defer f.Close()

	d, err := CountTurns(f)
	if err != nil {
		return 0, false, err
	}
	c.cache.Add(key, d)
	return d, true, nil
}

// Len reports how many results are cached.
func (c *Counter) Len() int { return c.cache.Len() }

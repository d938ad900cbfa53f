package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPool_OrderAndFailures(t *testing.T) {
	var paths []string
	for i := 0; i < 50; i++ {
		paths = append(paths, fmt.Sprintf("file-%02d.js", i))
	}
	process := func(path string) (string, error) {
		if strings.HasSuffix(path, "7.js") {
			return "", errors.New("bad file")
		}
		return strings.ToUpper(path), nil
	}

	outcomes, failures, err := runPool(context.Background(), 4, paths, process, testLogger())
	require.NoError(t, err)

	assert.Len(t, outcomes, 45)
	assert.Len(t, failures, 5)
	for i := 1; i < len(outcomes); i++ {
		assert.Less(t, outcomes[i-1].JobID, outcomes[i].JobID)
	}
	assert.Equal(t, "FILE-00.JS", outcomes[0].Value)
	assert.Equal(t, "file-07.js", failures[0].FilePath)
	assert.Equal(t, "bad file", failures[0].Message)
}

func TestWorkerPool_Stats(t *testing.T) {
	pool := NewWorkerPool(2, func(path string) (int, error) { return len(path), nil }, testLogger())
	pool.Start()

	go func() {
		defer pool.Stop()
		for i, p := range []string{"a", "bb", "ccc"} {
			_ = pool.Submit(context.Background(), FileJob{FilePath: p, JobID: i})
		}
	}()

	total := 0
	for r := range pool.Results() {
		total += r.Value
	}
	for range pool.Errors() {
	}

	assert.Equal(t, 6, total)
	stats := pool.GetStats()
	assert.Equal(t, 2, stats.NumWorkers)
	assert.Equal(t, int64(3), stats.JobsSubmitted)
	assert.Equal(t, int64(3), stats.JobsProcessed)

	assert.Error(t, pool.Submit(context.Background(), FileJob{FilePath: "late"}))
}

func TestResultCache_Disabled(t *testing.T) {
	rc, err := NewResultCache(0)
	require.NoError(t, err)
	assert.Nil(t, rc)

	rc.Add("k", &FileResult{})
	_, ok := rc.Get("k")
	assert.False(t, ok)
	assert.Equal(t, CacheStats{}, rc.Stats())
}

func TestResultCache_Eviction(t *testing.T) {
	rc, err := NewResultCache(2)
	require.NoError(t, err)

	rc.Add("a", &FileResult{Output: "a"})
	rc.Add("b", &FileResult{Output: "b"})
	rc.Add("c", &FileResult{Output: "c"})

	_, ok := rc.Get("a")
	assert.False(t, ok)
	got, ok := rc.Get("c")
	require.True(t, ok)
	assert.Equal(t, "c", got.Output)

	stats := rc.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	rc.Purge()
	assert.Equal(t, 0, rc.Stats().Entries)
}

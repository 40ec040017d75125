package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Movie-Proximity-Search/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.txt")
	corpus := "Alpha| the cat sat on the mat;\nBeta| mat cat;\nGamma| dog;\n"
	require.NoError(t, os.WriteFile(path, []byte(corpus), 0o644))
	return path
}

func testOptions(t *testing.T) options {
	return options{
		corpusPath: writeCorpus(t),
		index:      config.IndexConfig{InitialSize: 2, LoadFactorThreshold: 1},
		limit:      10,
	}
}

func TestRunRanksResults(t *testing.T) {
	opts := testOptions(t)
	opts.wordA, opts.wordB = "cat", "mat"
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, opts))

	text := out.String()
	assert.Contains(t, text, "load factor:")
	assert.Regexp(t, `1\s+1\s+beta`, text)
	assert.Regexp(t, `2\s+4\s+alpha`, text)
}

func TestRunReportsMissingAndEmpty(t *testing.T) {
	opts := testOptions(t)
	opts.wordA, opts.wordB = "zebra", "cat"
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, opts))
	assert.Contains(t, out.String(), "not indexed: [zebra]")

	opts.wordA, opts.wordB = "dog", "cat"
	out.Reset()
	require.NoError(t, run(context.Background(), &out, opts))
	assert.Contains(t, out.String(), `no movie contains both "dog" and "cat"`)
}

func TestRunDump(t *testing.T) {
	opts := testOptions(t)
	opts.dump = true
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, opts))
	assert.Contains(t, out.String(), "dog(gamma,0)")
	assert.Contains(t, out.String(), "[0]->")
}

func TestRunErrors(t *testing.T) {
	assert.Error(t, run(context.Background(), &bytes.Buffer{}, options{}))

	opts := testOptions(t)
	opts.wordA = "cat"
	assert.Error(t, run(context.Background(), &bytes.Buffer{}, opts))

	opts = testOptions(t)
	opts.index.InitialSize = 0
	assert.Error(t, run(context.Background(), &bytes.Buffer{}, opts))
}

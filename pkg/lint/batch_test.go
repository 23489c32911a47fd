package lint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBatch(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []string
		wantErr bool
	}{
		{name: "strings", payload: `["a", "very b"]`, want: []string{"a", "very b"}},
		{name: "empty array", payload: `[]`, want: []string{}},
		{name: "unicode escapes", payload: `["café 🎉"]`, want: []string{"café 🎉"}},
		{name: "not json", payload: `not json`, wantErr: true},
		{name: "object", payload: `{"a": 1}`, wantErr: true},
		{name: "array of numbers", payload: `[1, 2]`, wantErr: true},
		{name: "null", payload: `null`, wantErr: true},
		{name: "empty payload", payload: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBatch([]byte(tt.payload))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_LintBatch(t *testing.T) {
	eng := newFixtureEngine(t, WithLimits(Limits{MaxTextBytes: 32, MaxBatchItems: 4}))

	items, err := eng.LintBatch([]string{
		"very",
		strings.Repeat("x", 33),
		"",
		"really sort of",
	})
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.NoError(t, items[0].Err)
	assert.Equal(t, []string{"weasel_words.very"}, findingIDs(items[0].Findings))

	require.Error(t, items[1].Err)
	assert.ErrorIs(t, items[1].Err, ErrInputTooLarge)
	assert.Equal(t, "text 1 too large: 33 bytes (max 32 bytes)", items[1].Err.Error())
	assert.Nil(t, items[1].Findings)

	assert.NoError(t, items[2].Err)
	assert.NotNil(t, items[2].Findings)
	assert.Empty(t, items[2].Findings)

	assert.NoError(t, items[3].Err)
	assert.Equal(t, []string{"weasel_words.really", "hedging.sort_of"}, findingIDs(items[3].Findings))
}

func TestEngine_LintBatchMatchesLint(t *testing.T) {
	eng := newFixtureEngine(t)
	texts := []string{"very", "The reason is because.", "Wait...", "boom very"}

	items, err := eng.LintBatch(texts)
	require.NoError(t, err)

	for i, text := range texts {
		want, err := eng.Lint(text)
		require.NoError(t, err)
		assert.Equal(t, want, items[i].Findings, "text %d", i)
	}
}

func TestEngine_LintBatchTooLarge(t *testing.T) {
	eng := newFixtureEngine(t)

	texts := make([]string, MaxBatchSize+1)
	for i := range texts {
		texts[i] = "very"
	}

	items, err := eng.LintBatch(texts)
	require.Error(t, err)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, ErrBatchTooLarge)
	assert.Equal(t, "batch too large: 101 texts (max 100 texts)", err.Error())

	_, err = eng.LintBatchConcurrent(context.Background(), texts, 4)
	assert.ErrorIs(t, err, ErrBatchTooLarge)

	// exactly at the limit is accepted
	items, err = eng.LintBatch(texts[:MaxBatchSize])
	require.NoError(t, err)
	assert.Len(t, items, MaxBatchSize)
}

func TestEngine_LintBatchConcurrentEqualsSequential(t *testing.T) {
	eng := newFixtureEngine(t)

	texts := make([]string, 0, 60)
	for i := range 60 {
		texts = append(texts, fmt.Sprintf("Line %d is very\nreally sort of... boom %s", i, strings.Repeat("the the ", i%4)))
	}

	sequential, err := eng.LintBatch(texts)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 3, 16} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			concurrent, err := eng.LintBatchConcurrent(context.Background(), texts, workers)
			require.NoError(t, err)

			if diff := cmp.Diff(sequential, concurrent, cmp.Comparer(func(a, b error) bool {
				return (a == nil) == (b == nil) && (a == nil || a.Error() == b.Error())
			})); diff != "" {
				t.Errorf("concurrent batch differs (-sequential +concurrent):\n%s", diff)
			}
		})
	}
}

func TestEngine_LintBatchConcurrentCancelled(t *testing.T) {
	eng := newFixtureEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := eng.LintBatchConcurrent(ctx, []string{"very", "really"}, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, items)
}

package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParseBatch decodes a batch payload: a JSON array of strings.
// Anything else is reported as ErrMalformedInput.
func ParseBatch(payload []byte) ([]string, error) {
	var texts []string
	if err := json.Unmarshal(payload, &texts); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of strings: %v", ErrMalformedInput, err)
	}
	if texts == nil {
		// "null" decodes without error but is not a list
		return nil, fmt.Errorf("%w: expected a JSON array of strings, got null", ErrMalformedInput)
	}
	return texts, nil
}

// LintBatch lints each text independently with the engine's active set.
//
// A batch with more texts than the batch limit is rejected as a whole with a
// *LimitError before any text is linted. A text over the size limit fails only
// its own item; the other items are still linted.
func (e *Engine) LintBatch(texts []string) ([]BatchItem, error) {
	if err := e.checkBatchSize(len(texts)); err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(texts))
	for i, text := range texts {
		items[i].Findings, items[i].Err = e.lint(text, i)
	}
	return items, nil
}

// LintBatchConcurrent is LintBatch spread over up to workers goroutines.
// workers <= 0 uses GOMAXPROCS. Per-item results are identical to LintBatch.
// Cancelling ctx stops scheduling further items and returns ctx.Err().
func (e *Engine) LintBatchConcurrent(ctx context.Context, texts []string, workers int) ([]BatchItem, error) {
	if err := e.checkBatchSize(len(texts)); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	items := make([]BatchItem, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range texts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i].Findings, items[i].Err = e.lint(texts[i], i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (e *Engine) checkBatchSize(n int) error {
	if n > e.limits.MaxBatchItems {
		return &LimitError{Kind: BatchTooLarge, Size: n, Max: e.limits.MaxBatchItems, Index: -1}
	}
	return nil
}

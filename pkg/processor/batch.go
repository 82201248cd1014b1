package processor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/data443/doctagger/pkg/infra/prometheus"
	"github.com/data443/doctagger/pkg/types"
	"golang.org/x/sync/errgroup"
)

// ProcessBatch runs ProcessFile over every path with a bounded worker pool
// and aggregates the outcomes. Per-file failures land in the batch's Errors
// list; the batch itself only fails when the input is empty.
func (p *Processor) ProcessBatch(ctx context.Context, batchID string, paths []string) (*types.BatchResult, []*types.ProcessingResult) {
	batch := &types.BatchResult{
		TotalFiles:            len(paths),
		ClassificationResults: map[string]int{},
		StartTime:             time.Now().UTC(),
	}
	if len(paths) == 0 {
		batch.EndTime = batch.StartTime
		batch.Error = "no files provided"
		return batch, nil
	}

	prometheus.BatchSize.Observe(float64(len(paths)))

	results := make([]*types.ProcessingResult, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.MaxWorkers)
	for i, path := range paths {
		g.Go(func() error {
			result := p.ProcessFile(gctx, batchID, path)

			mu.Lock()
			defer mu.Unlock()
			results[i] = result
			if result.Error != "" {
				batch.Errors = append(batch.Errors, types.FileError{
					File:  result.File,
					Error: result.Error,
				})
				return nil
			}
			batch.ProcessedFiles++
			batch.ClassificationResults[result.Classification]++
			return nil
		})
	}
	_ = g.Wait()

	// Stable error ordering regardless of worker completion order.
	sort.Slice(batch.Errors, func(i, j int) bool {
		return batch.Errors[i].File < batch.Errors[j].File
	})

	batch.EndTime = time.Now().UTC()
	batch.ProcessingTimeSeconds = batch.EndTime.Sub(batch.StartTime).Seconds()

	p.store.CleanupBatch(batchID)

	p.logger.WithField("batch_id", batchID).
		WithField("total", batch.TotalFiles).
		WithField("processed", batch.ProcessedFiles).
		WithField("errors", len(batch.Errors)).
		Info("batch processed")

	return batch, results
}

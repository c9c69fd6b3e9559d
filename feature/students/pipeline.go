package students

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"kivo-exporter/core/kivo"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Result is the outcome of one student pipeline.
type Result struct {
	StudentID int
	Forms     []StudentForm
	Skipped   []SkippedRecord
}

// Pipeline orchestrates the per-student fetch, spine fan-out and
// normalization. A weighted semaphore bounds how many students are in
// flight at once; spine fetches within one student run concurrently and
// are only limited by that outer gate's backpressure.
type Pipeline struct {
	fetcher *kivo.Fetcher
	parser  *Parser
	logger  *zap.Logger
	limit   int64
	delay   time.Duration
}

// NewPipeline creates a pipeline. limit bounds concurrent student
// pipelines (values below one fall back to 3); delay is the pause applied
// after each student fetch that reached the network.
func NewPipeline(fetcher *kivo.Fetcher, parser *Parser, logger *zap.Logger, limit int, delay time.Duration) *Pipeline {
	if limit < 1 {
		limit = 3
	}
	return &Pipeline{
		fetcher: fetcher,
		parser:  parser,
		logger:  logger,
		limit:   int64(limit),
		delay:   delay,
	}
}

// Run processes every id and returns the accumulated forms and audit
// records. Pipelines start in id order but complete in any order; the
// returned slices carry no ordering guarantee and callers sort them.
func (p *Pipeline) Run(ctx context.Context, ids []int) ([]StudentForm, []SkippedRecord) {
	sem := semaphore.NewWeighted(p.limit)
	total := len(ids)

	var (
		mu      sync.Mutex
		forms   []StudentForm
		skipped []SkippedRecord
		wg      sync.WaitGroup
		done    atomic.Int64
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			res := p.processStudent(ctx, id)
			p.logResult(res, done.Add(1), total)

			mu.Lock()
			forms = append(forms, res.Forms...)
			skipped = append(skipped, res.Skipped...)
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return forms, skipped
}

// processStudent runs one full student pipeline. No failure escapes: a
// failed fetch becomes a whole-student audit record and the batch moves on.
func (p *Pipeline) processStudent(ctx context.Context, id int) Result {
	resp, fromCache, err := p.fetcher.FetchStudent(ctx, id)

	// Pace the API after any fetch that reached the network, failed ones
	// included; only cache hits replay at full speed.
	if !fromCache {
		p.pause(ctx)
	}

	if err != nil {
		return Result{
			StudentID: id,
			Skipped: []SkippedRecord{{
				StudentID: id,
				Reason:    fetchReason(err),
			}},
		}
	}

	spines := p.fetchSpines(ctx, resp)

	forms, skipped, studentSkip := p.parser.Parse(resp, id, spines)
	if studentSkip != nil {
		name, nameJP, nameEN, school := AuditContext(resp)
		skipped = append(skipped, SkippedRecord{
			StudentID: id,
			Reason:    *studentSkip,
			Name:      name,
			NameJP:    nameJP,
			NameEN:    nameEN,
			School:    school,
		})
	}

	return Result{StudentID: id, Forms: forms, Skipped: skipped}
}

// fetchSpines resolves all referenced spines concurrently. Failed fetches
// are dropped from the result; input order is preserved for the rest, so
// dedup stays deterministic.
func (p *Pipeline) fetchSpines(ctx context.Context, resp *kivo.StudentResponse) []*kivo.SpineData {
	if resp.Data == nil || len(resp.Data.Spine) == 0 {
		return nil
	}

	results := make([]*kivo.SpineData, len(resp.Data.Spine))
	var wg sync.WaitGroup
	for i, spineID := range resp.Data.Spine {
		wg.Add(1)
		go func(i, spineID int) {
			defer wg.Done()
			data, err := p.fetcher.FetchSpine(ctx, spineID)
			if err != nil {
				p.logger.Debug("spine fetch failed",
					zap.Int("spine_id", spineID),
					zap.Error(err))
				return
			}
			results[i] = data
		}(i, spineID)
	}
	wg.Wait()

	spines := make([]*kivo.SpineData, 0, len(results))
	for _, spine := range results {
		if spine != nil {
			spines = append(spines, spine)
		}
	}
	return spines
}

// pause waits out the pacing delay, or returns early on cancellation.
func (p *Pipeline) pause(ctx context.Context) {
	if p.delay <= 0 {
		return
	}
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// logResult reports one completed student pipeline.
func (p *Pipeline) logResult(res Result, done int64, total int) {
	progress := fmt.Sprintf("%d/%d", done, total)

	if len(res.Forms) > 0 {
		fileIDs := make([]string, len(res.Forms))
		for i, form := range res.Forms {
			fileIDs[i] = form.FileID
		}
		p.logger.Info("student processed",
			zap.String("progress", progress),
			zap.Int("student_id", res.StudentID),
			zap.Strings("file_ids", fileIDs))
	}

	for _, rec := range res.Skipped {
		if rec.SpineID != nil {
			p.logger.Info("spine skipped",
				zap.String("progress", progress),
				zap.Int("student_id", res.StudentID),
				zap.Int("spine_id", *rec.SpineID),
				zap.Stringer("reason", rec.Reason))
		} else {
			p.logger.Info("student skipped",
				zap.String("progress", progress),
				zap.Int("student_id", res.StudentID),
				zap.Stringer("reason", rec.Reason))
		}
	}
}

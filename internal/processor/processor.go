package processor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"

	"epsdm/internal/cache"
	"epsdm/internal/decoder"
)

// Processor decodes every EPS entry of a directory of zip archives.
// Archives run one after another; the entries of one archive run on the
// processor's pool.
type Processor struct {
	opts     Options
	pool     *Pool
	cache    *cache.Store
	pipeline *Pipeline
	log      zerolog.Logger
}

// New wires a processor. A nil store gets a fresh one.
func New(opts Options, dec decoder.Decoder, store *cache.Store) *Processor {
	if store == nil {
		store = cache.New()
	}
	return &Processor{
		opts:  opts,
		pool:  NewPool(opts.Workers),
		cache: store,
		pipeline: &Pipeline{
			Decoder:  dec,
			Cache:    store,
			Raster:   opts.Raster,
			Operator: opts.Operator,
		},
		log: opts.Logger,
	}
}

// Run processes the batch. Events are sent on events when it is non-nil;
// the caller must keep receiving until Run returns.
//
// Cancelling ctx stops the batch before the next archive and stops
// dispatching further entries of the current one. The returned error is
// reserved for setup failures; per-archive and per-file problems are
// reported in the stats.
func (p *Processor) Run(ctx context.Context, events chan<- Event) (BatchStats, error) {
	batch := BatchStats{StartedAt: time.Now()}

	archives, err := listArchives(p.opts.InputPath)
	if err != nil {
		return batch, fmt.Errorf("list archives: %w", err)
	}
	if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
		return batch, fmt.Errorf("create output dir: %w", err)
	}
	batch.ArchivesTotal = len(archives)

	p.log.Info().
		Str("input", p.opts.InputPath).
		Str("output", p.opts.OutputDir).
		Int("archives", len(archives)).
		Int("workers", p.pool.Workers()).
		Msg("batch started")

	for i, path := range archives {
		stats, ok := p.processArchive(ctx, i, len(archives), path, events)
		if !ok {
			batch.Cancelled = true
			p.log.Info().Str("archive", stats.Name).Msg("batch cancelled")
			break
		}
		batch.add(stats)
		if stats.State == StateCancelled {
			batch.Cancelled = true
		}

		if p.opts.ClearEvery > 0 && (i+1)%p.opts.ClearEvery == 0 {
			p.clearCache(&batch)
		}
		if batch.Cancelled {
			break
		}
	}
	p.clearCache(&batch)

	batch.FinishedAt = time.Now()
	batch.Elapsed = batch.FinishedAt.Sub(batch.StartedAt)
	emit(events, Event{Kind: EventBatchCompleted, Batch: batch})

	p.log.Info().
		Int("archives", batch.ArchivesProcessed).
		Int("files", batch.TotalFiles).
		Int("successful", batch.Successful).
		Int("failed", batch.Failed).
		Bool("cancelled", batch.Cancelled).
		Dur("elapsed", batch.Elapsed).
		Msg("batch finished")
	return batch, nil
}

func (p *Processor) clearCache(batch *BatchStats) {
	n := p.cache.Clear()
	batch.CacheClears++
	p.log.Debug().Int("entries", n).Msg("decode cache cleared")
}

// processArchive handles one archive. It reports false when the batch was
// cancelled before the archive was opened or before its entries were
// dispatched.
func (p *Processor) processArchive(ctx context.Context, idx, count int, path string, events chan<- Event) (ArchiveStats, bool) {
	stats := ArchiveStats{
		Name:  archiveName(path),
		Path:  path,
		Index: idx,
		State: StateEnumerating,
	}
	if ctx.Err() != nil {
		stats.State = StateCancelled
		return stats, false
	}
	started := time.Now()
	log := p.log.With().Str("archive", stats.Name).Logger()

	zr, err := zip.OpenReader(path)
	if err != nil {
		stats.State = StateFailed
		stats.Err = fmt.Errorf("%w: %s: %v", ErrArchiveOpen, path, err)
		stats.Elapsed = time.Since(started)

		log.Error().Err(err).Msg("open archive")
		emit(events, Event{Kind: EventArchiveStarted, Archive: stats.Name, ArchiveIndex: idx, ArchiveCount: count})
		emit(events, Event{Kind: EventError, Archive: stats.Name, ArchiveIndex: idx, Message: stats.Err.Error()})
		emit(events, Event{Kind: EventArchiveCompleted, Archive: stats.Name, ArchiveIndex: idx, Stats: stats})
		return stats, true
	}
	defer zr.Close()

	jobs := epsJobs(stats.Name, zr.File)
	stats.TotalFiles = len(jobs)
	emit(events, Event{Kind: EventArchiveStarted, Archive: stats.Name, ArchiveIndex: idx, ArchiveCount: count, Total: len(jobs)})
	emit(events, Event{Kind: EventFileProgress, ArchiveIndex: idx, Total: len(jobs)})

	if ctx.Err() != nil {
		stats.State = StateCancelled
		return stats, false
	}

	stats.State = StateProcessing
	log.Info().Int("files", len(jobs)).Int("workers", p.pool.Size(len(jobs))).Msg("archive started")

	var payloads []string
	completed := 0
	stats.Dispatched = p.pool.Run(ctx, jobs, p.processJob, func(res Result) {
		completed++
		if res.Cached {
			stats.CacheHits++
		}
		if res.OK() {
			stats.Successful++
			payloads = append(payloads, res.Payload)
		} else {
			stats.Failed++
			stats.Failures = append(stats.Failures, Failure{Entry: res.Name, Status: res.Status, Err: res.Err})
			log.Debug().Str("entry", res.Name).Str("status", res.Status).Err(res.Err).Msg("entry failed")
		}
		emit(events, Event{Kind: EventFileProgress, ArchiveIndex: idx, Completed: completed, Total: len(jobs)})
	})

	stats.State = StateCompleted
	if stats.Dispatched < len(jobs) {
		stats.State = StateCancelled
	}
	stats.OutputPath = ResultPath(p.opts.OutputDir, stats.Name)
	stats.Elapsed = time.Since(started)
	emit(events, Event{Kind: EventArchiveCompleted, Archive: stats.Name, ArchiveIndex: idx, Stats: stats})

	if _, err := WriteResults(p.opts.OutputDir, stats.Name, payloads); err != nil {
		stats.Err = err
		log.Error().Err(err).Msg("write results")
		emit(events, Event{Kind: EventError, Archive: stats.Name, ArchiveIndex: idx, Message: err.Error()})
	}

	log.Info().
		Str("state", stats.State.String()).
		Int("successful", stats.Successful).
		Int("failed", stats.Failed).
		Int("cache_hits", stats.CacheHits).
		Dur("elapsed", stats.Elapsed).
		Msg("archive finished")
	return stats, true
}

func (p *Processor) processJob(job Job) Result {
	res := Result{Name: job.Name}

	content, err := readEntry(job.file)
	if err != nil {
		res.Err = err
		res.Status = statusOf(err)
		return res
	}

	e, hit := p.pipeline.Decode(content)
	res.Payload = e.Payload
	res.Status = e.Status
	res.Err = e.Err
	res.Cached = hit
	return res
}

func emit(events chan<- Event, ev Event) {
	if events != nil {
		events <- ev
	}
}

// Failures flattens the failures of every archive in the batch.
func (b BatchStats) Failures() []Failure {
	var out []Failure
	for _, a := range b.Archives {
		if a.Err != nil {
			out = append(out, Failure{Entry: a.Name, Status: a.State.String(), Err: a.Err})
		}
		for _, f := range a.Failures {
			f.Entry = a.Name + "/" + f.Entry
			out = append(out, f)
		}
	}
	return out
}

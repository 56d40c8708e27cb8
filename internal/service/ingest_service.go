package service

import (
	"context"
	"errors"
	"fmt"

	"szexam/internal/config"
	"szexam/internal/domain"
	"szexam/internal/parser"
	"szexam/internal/util"
	"szexam/internal/validation"

	"go.uber.org/zap"
)

// IngestService runs source files through parsing, validation and cleaning into a TopicSink.
// Files are processed one after another; only the counters carry over between them.
type IngestService struct {
	opener domain.FeedOpener
	sink   domain.TopicSink
	cfg    config.IngestConfig
	logger *zap.Logger
}

// NewIngestService creates a new instance of IngestService.
func NewIngestService(opener domain.FeedOpener, sink domain.TopicSink, cfg config.IngestConfig, logger *zap.Logger) *IngestService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &IngestService{opener: opener, sink: sink, cfg: cfg, logger: logger}
}

// Run ingests every path in order. A file that cannot be read is logged and counted, and the
// remaining files still run.
func (s *IngestService) Run(ctx context.Context, paths []string) domain.IngestStats {
	logger := s.logger.With(zap.String("run_id", util.NewULID()))
	logger.Info("Starting ingestion run", zap.Int("files", len(paths)))

	var total domain.IngestStats
	for _, path := range paths {
		if ctx.Err() != nil {
			logger.Warn("Ingestion run cancelled", zap.Error(ctx.Err()))
			break
		}
		stats, err := s.ingestFile(ctx, path, logger)
		total.Add(stats, s.cfg.ErrorSampleSize)
		if err != nil {
			total.FailedFiles++
			total.RecordError(err.Error(), s.cfg.ErrorSampleSize)
			code := domain.ErrFileUnreadable
			var dErr *domain.DomainError
			if errors.As(err, &dErr) {
				code = dErr.Code
			}
			logger.Error("Aborting file", zap.String("file", path),
				zap.String("code", string(code)), zap.Error(err))
		}
	}

	logger.Info("Ingestion run finished",
		zap.Int("files", total.Files),
		zap.Int("failed_files", total.FailedFiles),
		zap.Int("extracted", total.Extracted),
		zap.Int("incomplete", total.Incomplete),
		zap.Int("invalid", total.Invalid),
		zap.Int("inserted", total.Inserted),
		zap.Int("duplicates", total.Duplicates),
		zap.Int("skipped", total.Skipped),
	)
	return total
}

// IngestFile ingests a single file. The returned stats cover whatever was processed before
// an error.
func (s *IngestService) IngestFile(ctx context.Context, path string) (domain.IngestStats, error) {
	return s.ingestFile(ctx, path, s.logger)
}

func (s *IngestService) ingestFile(ctx context.Context, path string, logger *zap.Logger) (domain.IngestStats, error) {
	logger = logger.With(zap.String("file", path))
	feed, err := s.opener.Open(path)
	if err != nil {
		return domain.IngestStats{Files: 1}, err
	}
	defer feed.Close()

	run := s.newBatchRun(ctx, logger)
	run.stats.Files = 1
	p := parser.New(parser.Config{MultiSelectMarker: s.cfg.MultiSelectMarker}, logger, run.handleCandidate)

	pages := feed.PageCount()
	logger.Info("Processing file", zap.Int("pages", pages))
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			// Committed batches stay; the open one is abandoned.
			run.rollback()
			run.collectParserStats(p.Stats())
			return run.stats, err
		}
		blocks, err := feed.Page(i)
		if err != nil {
			// Records already inserted from earlier pages are kept.
			run.commit()
			run.collectParserStats(p.Stats())
			return run.stats, domain.NewFileError(path, err)
		}
		for _, block := range blocks {
			p.FeedBlock(block)
		}
	}
	p.Close()
	run.commit()
	run.collectParserStats(p.Stats())

	logger.Info("Finished file",
		zap.Int("extracted", run.stats.Extracted),
		zap.Int("incomplete", run.stats.Incomplete),
		zap.Int("invalid", run.stats.Invalid),
		zap.Int("inserted", run.stats.Inserted),
		zap.Int("duplicates", run.stats.Duplicates),
		zap.Int("skipped", run.stats.Skipped),
	)
	return run.stats, nil
}

// ImportCandidates runs already structured records through validation, cleaning and the sink,
// committing once at the end.
func (s *IngestService) ImportCandidates(ctx context.Context, candidates []domain.Candidate) domain.IngestStats {
	run := s.newBatchRun(ctx, s.logger.With(zap.String("run_id", util.NewULID())))
	for i := range candidates {
		if candidates[i].Ordinal == 0 {
			candidates[i].Ordinal = i + 1
		}
		run.stats.Extracted++
		run.handleCandidate(candidates[i])
	}
	run.commit()
	return run.stats
}

// batchRun is the per-file state: counters and the number of inserts since the last commit.
type batchRun struct {
	ctx     context.Context
	svc     *IngestService
	logger  *zap.Logger
	stats   domain.IngestStats
	pending int
}

func (s *IngestService) newBatchRun(ctx context.Context, logger *zap.Logger) *batchRun {
	return &batchRun{ctx: ctx, svc: s, logger: logger}
}

func (r *batchRun) collectParserStats(ps parser.Stats) {
	r.stats.Extracted += ps.Emitted
	r.stats.Incomplete += ps.Incomplete
}

func (r *batchRun) recordError(msg string) {
	r.stats.RecordError(msg, r.svc.cfg.ErrorSampleSize)
}

func (r *batchRun) handleCandidate(c domain.Candidate) {
	if err := validation.Validate(&c); err != nil {
		r.stats.Invalid++
		rule := ""
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			rule = vErr.Rule
		}
		r.logger.Warn("Candidate failed validation",
			zap.String("code", string(domain.ErrValidationFailure)),
			zap.Int("ordinal", c.Ordinal),
			zap.String("rule", rule),
			zap.Error(err),
		)
		r.recordError(fmt.Sprintf("question %d: %v", c.Ordinal, err))
		return
	}
	r.store(c.Ordinal, validation.Clean(&c))
}

func (r *batchRun) store(ordinal int, topic *domain.Topic) {
	exists, err := r.svc.sink.Exists(r.ctx, topic.Content, topic.Month)
	if err != nil {
		r.persistenceFailed(ordinal, "exists", err)
		return
	}
	if exists {
		r.stats.Duplicates++
		r.logger.Debug("Skipping duplicate topic", zap.Int("ordinal", ordinal), zap.Int("month", topic.Month))
		return
	}

	res := r.svc.sink.Insert(r.ctx, topic)
	switch res.Status {
	case domain.InsertStatusInserted:
		r.stats.Inserted++
		r.pending++
		if r.pending >= r.svc.cfg.BatchSize {
			r.commit()
		}
	case domain.InsertStatusDuplicate:
		r.stats.Duplicates++
		r.logger.Debug("Sink reported duplicate topic", zap.Int("ordinal", ordinal), zap.Int("month", topic.Month))
	default:
		r.persistenceFailed(ordinal, "insert", res.Err)
	}
}

func (r *batchRun) persistenceFailed(ordinal int, op string, err error) {
	r.stats.Skipped++
	pErr := domain.NewPersistenceError(fmt.Sprintf("question %d: %s", ordinal, op), err)
	r.logger.Error("Persistence call failed, skipping topic",
		zap.String("code", string(pErr.Code)),
		zap.String("op", op),
		zap.Int("ordinal", ordinal),
		zap.Error(err),
	)
	r.recordError(pErr.Error())
}

// loseBatch moves the pending inserts from Inserted to Skipped.
func (r *batchRun) loseBatch(reason string, err error) {
	pErr := domain.NewPersistenceError(fmt.Sprintf("%s of %d topics", reason, r.pending), err)
	r.stats.Inserted -= r.pending
	r.stats.Skipped += r.pending
	r.logger.Error("Batch lost",
		zap.String("code", string(pErr.Code)),
		zap.String("reason", reason),
		zap.Int("lost", r.pending),
		zap.Error(err),
	)
	r.recordError(pErr.Error())
	r.pending = 0
}

// commit makes pending inserts durable. If the commit fails, those inserts are lost and are
// moved from Inserted to Skipped.
func (r *batchRun) commit() {
	if err := r.svc.sink.CommitBatch(r.ctx); err != nil {
		r.loseBatch("commit", err)
		return
	}
	if r.pending > 0 {
		r.logger.Debug("Committed batch", zap.Int("topics", r.pending))
	}
	r.pending = 0
}

// rollback abandons pending inserts when the sink supports it. Sinks without Rollback keep
// whatever they already applied.
func (r *batchRun) rollback() {
	rb, ok := r.svc.sink.(interface{ Rollback() error })
	if !ok {
		return
	}
	err := rb.Rollback()
	if err != nil {
		r.logger.Error("Rollback failed", zap.Error(err))
	}
	if r.pending > 0 {
		r.loseBatch("rollback", err)
	}
}

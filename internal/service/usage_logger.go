package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
	"github.com/boddenberg/whichcard-bfa-go/internal/infra/observability"
	"github.com/boddenberg/whichcard-bfa-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
)

// UsageLoggerConfig tunes the background writer.
type UsageLoggerConfig struct {
	Workers      int
	QueueSize    int
	WriteTimeout time.Duration
	IPHashSalt   string
}

// UsageLogger records consented evaluations in the usage log. Log never
// blocks: records go to a bounded queue that a small pool of workers
// drains into the sink. Write failures are logged and counted, never
// returned to the visitor.
type UsageLogger struct {
	sink    port.UsageSink
	cfg     UsageLoggerConfig
	hashKey [sha256.Size]byte
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.RWMutex
	closed  bool
	started bool
	queue   chan *domain.CardRequestRecord
	group   *errgroup.Group
	cancel  context.CancelFunc
}

// NewUsageLogger creates the logger. sink may be nil, in which case every
// record is skipped with reason no_supabase.
func NewUsageLogger(sink port.UsageSink, cfg UsageLoggerConfig, metrics *observability.Metrics, logger *zap.Logger) *UsageLogger {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	return &UsageLogger{
		sink:    sink,
		cfg:     cfg,
		hashKey: sha256.Sum256([]byte(cfg.IPHashSalt)),
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		queue:   make(chan *domain.CardRequestRecord, cfg.QueueSize),
	}
}

// Start launches the workers. It is a no-op without a sink or when already started.
func (u *UsageLogger) Start() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.sink == nil || u.started || u.closed {
		return
	}
	u.started = true

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	g, gCtx := errgroup.WithContext(ctx)
	u.group = g

	for i := 0; i < u.cfg.Workers; i++ {
		g.Go(func() error {
			for rec := range u.queue {
				u.write(gCtx, rec)
			}
			return nil
		})
	}
	u.logger.Info("usage logger started",
		zap.Int("workers", u.cfg.Workers),
		zap.Int("queue_size", u.cfg.QueueSize),
	)
}

// Log enqueues one evaluation for the usage log.
func (u *UsageLogger) Log(consent domain.ConsentLevel, payload domain.LogCardRequestPayload, meta domain.RequestMetadata) domain.LogCardRequestResponse {
	if consent != domain.ConsentFull {
		u.metrics.IncrUsageLog(observability.UsageSkipped)
		return domain.LogCardRequestResponse{OK: true, Skipped: true, Reason: domain.SkipNoConsent}
	}
	if u.sink == nil {
		u.metrics.IncrUsageLog(observability.UsageSkipped)
		return domain.LogCardRequestResponse{OK: true, Skipped: true, Reason: domain.SkipNoSink}
	}

	rec := &domain.CardRequestRecord{
		ID:         uuid.NewString(),
		Purchase:   payload.Purchase,
		BestCard:   payload.BestCard,
		Results:    payload.Results,
		Settings:   payload.Settings.Clone(),
		Metadata:   meta,
		IPHash:     u.HashIP(meta.IP),
		ReceivedAt: u.now(),
	}

	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.closed {
		u.metrics.IncrUsageLog(observability.UsageDropped)
		return domain.LogCardRequestResponse{OK: false, Skipped: true, Reason: domain.SkipShutdown}
	}

	select {
	case u.queue <- rec:
		u.metrics.IncrUsageLog(observability.UsageQueued)
		return domain.LogCardRequestResponse{OK: true}
	default:
		u.metrics.IncrUsageLog(observability.UsageDropped)
		u.logger.Warn("usage log queue full, dropping record", zap.String("id", rec.ID))
		return domain.LogCardRequestResponse{OK: false, Skipped: true, Reason: domain.SkipQueueFull}
	}
}

// HashIP returns a keyed BLAKE2b-256 digest of ip, or "" for an empty ip.
func (u *UsageLogger) HashIP(ip string) string {
	if ip == "" {
		return ""
	}
	h, err := blake2b.New256(u.hashKey[:])
	if err != nil {
		return ""
	}
	h.Write([]byte(ip))
	return hex.EncodeToString(h.Sum(nil))
}

// Close stops accepting records and waits for the queue to drain. If ctx
// ends first, in-flight writes are cancelled and ctx.Err() is returned.
func (u *UsageLogger) Close(ctx context.Context) error {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return nil
	}
	u.closed = true
	close(u.queue)
	group, cancel := u.group, u.cancel
	u.mu.Unlock()

	if group == nil {
		return nil
	}
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(done)
	}()

	select {
	case <-done:
		u.logger.Info("usage logger drained")
		return nil
	case <-ctx.Done():
		cancel()
		<-done
		u.logger.Warn("usage logger shutdown timed out, pending records dropped")
		return ctx.Err()
	}
}

func (u *UsageLogger) write(ctx context.Context, rec *domain.CardRequestRecord) {
	if ctx.Err() != nil {
		u.metrics.IncrUsageLog(observability.UsageDropped)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.WriteTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "UsageLogger.Write")
	defer span.End()
	span.SetAttributes(attribute.String("card_request.id", rec.ID))

	start := time.Now()
	err := u.sink.InsertCardRequest(ctx, rec)
	u.metrics.RecordDuration("usage_log_write", time.Since(start))
	if err != nil {
		span.RecordError(err)
		u.metrics.IncrUsageLog(observability.UsageFailed)
		u.metrics.IncrExternalError("usage_sink")
		u.logger.Error("failed to write usage log",
			zap.String("id", rec.ID),
			zap.Error(err),
		)
		return
	}
	u.metrics.IncrUsageLog(observability.UsageWritten)
}

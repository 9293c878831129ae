package service

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/loan-service/internal/events"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// reconcileQueueKey holds pending book-availability mismatches as a
	// redis list consumed by an out-of-band reconciler.
	reconcileQueueKey = "reconcile:book_sync"
	reconcileQueueCap = 10000
)

// ReconciliationService records the mismatches the workflow leaves behind on
// partial success: a returned loan whose remote book flag was not restored,
// or a rollback delete that failed. The workflow itself never retries; this
// queue is where an operator or background reconciler picks up.
type ReconciliationService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewReconciliationService creates the service. A nil redis client degrades
// to log-only operation.
func NewReconciliationService(redisClient *redis.Client, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{redis: redisClient, logger: logger}
}

// RegisterHandlers subscribes to the workflow events that need follow-up.
func (s *ReconciliationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventBookSyncFailed, s.handleBookSyncFailed)
	dispatcher.Subscribe(events.EventLoanRolledBack, s.handleLoanRolledBack)
}

func (s *ReconciliationService) handleBookSyncFailed(ctx context.Context, event events.Event) error {
	s.logger.Warn("book sync mismatch recorded",
		zap.String("loan_id", event.LoanID),
		zap.Any("payload", event.Payload))
	s.enqueue(ctx, event)
	return nil
}

func (s *ReconciliationService) handleLoanRolledBack(ctx context.Context, event events.Event) error {
	s.logger.Info("loan rolled back after failed book update",
		zap.String("loan_id", event.LoanID),
		zap.Any("payload", event.Payload))
	return nil
}

func (s *ReconciliationService) enqueue(ctx context.Context, event events.Event) {
	if s.redis == nil {
		return
	}
	entry, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal reconciliation entry", zap.Error(err))
		return
	}

	pushCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	pipe := s.redis.TxPipeline()
	pipe.RPush(pushCtx, reconcileQueueKey, entry)
	pipe.LTrim(pushCtx, reconcileQueueKey, -reconcileQueueCap, -1)
	if _, err := pipe.Exec(pushCtx); err != nil {
		// Redis being down must never fail the workflow; the log line above
		// remains the record of the mismatch.
		s.logger.Warn("unable to enqueue reconciliation entry", zap.Error(err))
	}
}

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/burette/pkg/domain"
	"github.com/aretw0/burette/pkg/ports"
)

type loggingStore struct {
	next   ports.RunStore
	logger *slog.Logger
}

// NewLogging creates a middleware that logs every store operation with
// its duration. Failures are logged at warn level with the error.
func NewLogging(logger *slog.Logger) Middleware {
	return func(next ports.RunStore) ports.RunStore {
		return &loggingStore{next: next, logger: logger}
	}
}

func (s *loggingStore) Save(ctx context.Context, run *domain.Run) error {
	start := time.Now()
	err := s.next.Save(ctx, run)
	s.log(ctx, "save", run.ID, start, err)
	return err
}

func (s *loggingStore) Load(ctx context.Context, id string) (*domain.Run, error) {
	start := time.Now()
	run, err := s.next.Load(ctx, id)
	s.log(ctx, "load", id, start, err)
	return run, err
}

func (s *loggingStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.log(ctx, "delete", id, start, err)
	return err
}

func (s *loggingStore) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := s.next.List(ctx)
	s.log(ctx, "list", "", start, err)
	return ids, err
}

func (s *loggingStore) log(ctx context.Context, op, id string, start time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(start)}
	if id != "" {
		attrs = append(attrs, "run", id)
	}
	if err != nil {
		attrs = append(attrs, "err", err)
		s.logger.WarnContext(ctx, "run store operation failed", attrs...)
		return
	}
	s.logger.DebugContext(ctx, "run store operation", attrs...)
}

package middleware

import (
	"context"

	"github.com/aretw0/burette/pkg/domain"
	"github.com/aretw0/burette/pkg/ports"
)

type retentionStore struct {
	next ports.RunStore
	cap  int
}

// NewRetention creates a middleware that bounds the number of samples
// persisted per run. Long experiments with fine tick intervals record
// curves far denser than any store needs for restore or display; this
// downsamples on the way in, always keeping the first and last points.
// The live run in memory is never touched, and restored runs stay
// monotonic because downsampling preserves order.
func NewRetention(maxSamples int) Middleware {
	if maxSamples < 2 {
		panic("retention cap must keep at least the first and last sample")
	}
	return func(next ports.RunStore) ports.RunStore {
		return &retentionStore{next: next, cap: maxSamples}
	}
}

func (s *retentionStore) Save(ctx context.Context, run *domain.Run) error {
	if len(run.Samples) <= s.cap {
		return s.next.Save(ctx, run)
	}

	trimmed := run.Clone()
	trimmed.Samples = downsample(run.Samples, s.cap)
	return s.next.Save(ctx, trimmed)
}

func (s *retentionStore) Load(ctx context.Context, id string) (*domain.Run, error) {
	return s.next.Load(ctx, id)
}

func (s *retentionStore) Delete(ctx context.Context, id string) error {
	return s.next.Delete(ctx, id)
}

func (s *retentionStore) List(ctx context.Context) ([]string, error) {
	return s.next.List(ctx)
}

// downsample picks n evenly spaced samples including both endpoints.
func downsample(samples []domain.Sample, n int) []domain.Sample {
	out := make([]domain.Sample, n)
	last := len(samples) - 1
	for i := 0; i < n; i++ {
		idx := i * last / (n - 1)
		out[i] = samples[idx]
	}
	return out
}

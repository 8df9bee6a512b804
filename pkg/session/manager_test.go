package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/burette/pkg/domain"
	"github.com/aretw0/burette/pkg/session"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.Run
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, run *domain.Run) error {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Run)
	}
	s.data[run.ID] = run.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, runID string) (*domain.Run, error) {
	time.Sleep(10 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if run, ok := s.data[runID]; ok {
		return run.Clone(), nil
	}
	return nil, domain.ErrRunNotFound
}

func (s *SlowStore) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func benchRun(id string) *domain.Run {
	return domain.NewRun(id, domain.Config{
		Analyte: domain.Solute{Kind: domain.Acid, Strength: domain.Strong, Concentration: 0.1, Volume: 25},
		Titrant: domain.Titrant{
			Solute:       domain.Solute{Kind: domain.Base, Strength: domain.Strong, Concentration: 0.1, Volume: 50},
			DeliveryRate: 0.5,
		},
	})
}

func TestManager_Locking(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	_ = manager.Save(ctx, benchRun(id))

	var wg sync.WaitGroup
	concurrentWrites := 10

	// Writes to the same run must be serialized by the manager. The
	// SlowStore simulates IO delay so unserialized writes would overlap.
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			run := benchRun(id)
			run.Phase = domain.PhaseRunning
			err := manager.Save(ctx, run)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
}

func TestManager_Reserve(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
	)

	// Two routines race to reserve the same ID; exactly one may win.
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.Reserve(ctx, benchRun(id))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case assert.ErrorIs(t, err, domain.ErrRunExists):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created, "exactly one reservation should win")
	assert.Equal(t, 1, rejected, "the loser should observe ErrRunExists")

	run, err := manager.Load(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, domain.PhaseIdle, run.Phase)
}

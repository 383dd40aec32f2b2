package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gradepoint/gradepoint/internal/infrastructure/persistence/redis"
)

type fakePatternDeleter struct {
	patterns []string
	err      error
}

func (f *fakePatternDeleter) DeleteByPattern(_ context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return f.err
}

type fakeOrphanDeleter struct {
	calls   int
	removed int64
	err     error
}

func (f *fakeOrphanDeleter) DeleteOrphans(context.Context) (int64, error) {
	f.calls++
	return f.removed, f.err
}

func TestPrunerSweepsCountersAndOrphans(t *testing.T) {
	counters := &fakePatternDeleter{}
	rows := &fakeOrphanDeleter{removed: 3}

	p := NewPruner(counters, rows, nil, time.Minute)
	p.sweep(context.Background())

	assert.Equal(t, []string{redis.PrefixRateLimit + "*"}, counters.patterns)
	assert.Equal(t, 1, rows.calls)
}

func TestPrunerSkipsNilTargets(t *testing.T) {
	p := NewPruner(nil, nil, nil, time.Minute)

	// Nothing to call; just must not panic.
	p.sweep(context.Background())
}

func TestPrunerCounterFailureDoesNotStopOrphanSweep(t *testing.T) {
	counters := &fakePatternDeleter{err: errors.New("redis down")}
	rows := &fakeOrphanDeleter{}

	p := NewPruner(counters, rows, nil, time.Minute)
	p.sweep(context.Background())

	assert.Equal(t, 1, rows.calls)
}

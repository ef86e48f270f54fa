package repository

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"rta-kabinets/db"
)

// EstimateCounter is the name of the sequence printed as "Estimate Number"
const EstimateCounter = "estimate"

// CounterRepository hands out sequence numbers stored in estimate_counters
type CounterRepository struct{}

func NewCounterRepository() *CounterRepository {
	return &CounterRepository{}
}

// Ensure CounterRepository implements Counter
var _ Counter = (*CounterRepository)(nil)

// Next increments the named counter and returns its new value. The first call returns 1.
func (r *CounterRepository) Next(ctx context.Context, name string) (int, error) {
	query := `
		INSERT INTO estimate_counters (name, value, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (name)
		DO UPDATE SET value = estimate_counters.value + 1, updated_at = NOW()
		RETURNING value
	`

	var value int64
	if err := db.DB.QueryRowContext(ctx, query, name).Scan(&value); err != nil {
		zap.S().Errorf("❌ Error incrementing counter %s: %v", name, err)
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}
	zap.S().Debugf("🔢 Counter %s -> %d", name, value)
	return int(value), nil
}

// MemoryCounter is the counter used when no database is configured.
// Numbering restarts at 1 with the process.
type MemoryCounter struct {
	mu     sync.Mutex
	values map[string]int
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{values: make(map[string]int)}
}

var _ Counter = (*MemoryCounter)(nil)

func (c *MemoryCounter) Next(ctx context.Context, name string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name]++
	return c.values[name], nil
}

package cache_utils

import (
	"context"
	"time"

	"logview/internal/cache"

	"github.com/valkey-io/valkey-go"
)

// ValkeyRingService keeps a bounded list of recent log lines per file so new
// stream subscribers can be given context before going live. Lines survive
// process restarts and are shared across API instances.
type ValkeyRingService struct {
	client   valkey.Client
	timeout  time.Duration
	capacity int64
}

func NewValkeyRingService(capacity int64) *ValkeyRingService {
	return &ValkeyRingService{
		client:   cache.GetCache(),
		timeout:  DefaultRingTimeout,
		capacity: capacity,
	}
}

func (r *ValkeyRingService) AppendBatch(ringKey string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	// Push and trim in one pipeline so the ring never grows past capacity.
	cmds := make([]valkey.Completed, 0, len(lines)+1)
	for _, line := range lines {
		cmds = append(cmds, r.client.B().Rpush().Key(ringKey).Element(line).Build())
	}
	cmds = append(cmds, r.client.B().Ltrim().Key(ringKey).Start(-r.capacity).Stop(-1).Build())

	results := r.client.DoMulti(ctx, cmds...)
	for _, result := range results {
		if result.Error() != nil {
			return result.Error()
		}
	}

	return nil
}

// Recent returns up to limit most recent lines in oldest-first order.
func (r *ValkeyRingService) Recent(ringKey string, limit int64) ([]string, error) {
	if limit <= 0 || limit > r.capacity {
		limit = r.capacity
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := r.client.B().Lrange().Key(ringKey).Start(-limit).Stop(-1).Build()
	result := r.client.Do(ctx, cmd)

	if result.Error() != nil {
		if result.Error() == valkey.Nil {
			return nil, nil
		}
		return nil, result.Error()
	}

	return result.AsStrSlice()
}

func (r *ValkeyRingService) Clear(ringKey string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := r.client.B().Del().Key(ringKey).Build()
	result := r.client.Do(ctx, cmd)

	return result.Error()
}

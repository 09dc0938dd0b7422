package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/socialdesk/socialdesk/internal/config"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHook answers commands in place of a redis server and records how they were sent
type recordingHook struct {
	count     int64
	err       error
	single    []string
	pipelines [][]string
}

func (h *recordingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *recordingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.single = append(h.single, cmd.Name())
		return nil
	}
}

func (h *recordingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		var names []string
		for _, cmd := range cmds {
			names = append(names, cmd.Name())
			if h.err != nil {
				cmd.SetErr(h.err)
				continue
			}
			switch c := cmd.(type) {
			case *redis.IntCmd:
				h.count++
				c.SetVal(h.count)
			case *redis.BoolCmd:
				c.SetVal(true)
			}
		}
		h.pipelines = append(h.pipelines, names)
		return h.err
	}
}

func newHookedCounter(t *testing.T, hook *recordingHook) Counter {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	client.AddHook(hook)
	t.Cleanup(func() { _ = client.Close() })
	return NewCounter(client, nil)
}

func TestRedisCounterSetsExpiryWithIncrement(t *testing.T) {
	hook := &recordingHook{}
	counter := newHookedCounter(t, hook)
	ctx := context.Background()

	n, err := counter.Increment(ctx, "whatsapp:rate:123:1700000000", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = counter.Increment(ctx, "whatsapp:rate:123:1700000000", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.Empty(t, hook.single, "no command is sent outside the transaction")
	require.Len(t, hook.pipelines, 2)
	for _, names := range hook.pipelines {
		assert.Contains(t, names, "incr")
		assert.Contains(t, names, "expire")
	}
}

func TestRedisCounterError(t *testing.T) {
	hook := &recordingHook{err: errors.New("connection refused")}
	counter := newHookedCounter(t, hook)

	_, err := counter.Increment(context.Background(), "whatsapp:rate:123:1700000000", time.Minute)
	require.Error(t, err)
	assert.True(t, ierr.IsSystem(err))
}

func TestMemoryCounter(t *testing.T) {
	counter := NewCounter(nil, NewInMemoryCache(config.GetDefaultConfig()))
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := counter.Increment(ctx, "whatsapp:rate:123:1700000000", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err := counter.Increment(ctx, "whatsapp:rate:123:1700000060", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

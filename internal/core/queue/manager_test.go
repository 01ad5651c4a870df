package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"ingredient-parser/internal/infrastructure/config"
	"ingredient-parser/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueAndProcess(t *testing.T) {
	t.Parallel()

	m := NewManager(config.QueueConfig{Workers: 2, MaxSize: 10})
	m.Start()
	defer m.Close()

	ch, err := m.Enqueue(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "done", nil
	})
	require.NoError(t, err)

	select {
	case res := <-ch:
		require.NoError(t, res.Error)
		assert.Equal(t, "done", res.Value)
	case <-time.After(time.Second):
		t.Fatal("job was not processed")
	}

	assert.Eventually(t, func() bool {
		return m.GetQueueStatus().ProcessedCount == 1
	}, time.Second, 10*time.Millisecond)
}

func TestEnqueueFull(t *testing.T) {
	t.Parallel()

	// 未啟動工作者，隊列不會被消化
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	defer m.Close()

	noop := func(ctx context.Context) (interface{}, error) { return nil, nil }

	_, err := m.Enqueue(context.Background(), noop)
	require.NoError(t, err)

	_, err = m.Enqueue(context.Background(), noop)
	assert.ErrorIs(t, err, common.ErrQueueFull)
}

func TestEnqueueAfterClose(t *testing.T) {
	t.Parallel()

	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	m.Start()
	m.Close()
	m.Close()

	_, err := m.Enqueue(context.Background(), func(ctx context.Context) (interface{}, error) { return nil, nil })
	assert.ErrorIs(t, err, common.ErrQueueClosed)
	assert.False(t, m.GetQueueStatus().Running)
}

func TestCloseWithoutWorkersAnswersPending(t *testing.T) {
	t.Parallel()

	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 2})
	ch, err := m.Enqueue(context.Background(), func(ctx context.Context) (interface{}, error) { return nil, nil })
	require.NoError(t, err)

	m.Close()
	res := <-ch
	assert.ErrorIs(t, res.Error, common.ErrQueueClosed)
}

func TestJobErrorsAndPanics(t *testing.T) {
	t.Parallel()

	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 4})
	m.Start()
	defer m.Close()

	boom := errors.New("boom")
	ch1, err := m.Enqueue(context.Background(), func(ctx context.Context) (interface{}, error) { return nil, boom })
	require.NoError(t, err)
	ch2, err := m.Enqueue(context.Background(), func(ctx context.Context) (interface{}, error) { panic("bad job") })
	require.NoError(t, err)

	assert.ErrorIs(t, (<-ch1).Error, boom)
	assert.ErrorIs(t, (<-ch2).Error, common.ErrInternalError)

	assert.Eventually(t, func() bool {
		return m.GetQueueStatus().FailedCount == 2
	}, time.Second, 10*time.Millisecond)
}

func TestCancelledRequestIsSkipped(t *testing.T) {
	t.Parallel()

	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	ch, err := m.Enqueue(ctx, func(ctx context.Context) (interface{}, error) {
		ran = true
		return nil, nil
	})
	require.NoError(t, err)

	m.Start()
	defer m.Close()

	res := <-ch
	assert.ErrorIs(t, res.Error, context.Canceled)
	assert.False(t, ran)
}

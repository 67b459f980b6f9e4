package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSyncer struct{ mock.Mock }

func (m *MockSyncer) Sync(ctx context.Context) (SyncReport, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(SyncReport)
	return r, args.Error(1)
}

func TestNewScheduler_Constructs(t *testing.T) {
	s := NewScheduler(new(MockSyncer), 10*time.Second)
	require.NotNil(t, s)
	require.Nil(t, s.sched)
}

func TestScheduler_Shutdown_NoScheduler_ReturnsNil(t *testing.T) {
	s := NewScheduler(new(MockSyncer), 10*time.Second)
	require.NoError(t, s.Shutdown())
	require.Nil(t, s.sched)
}

func TestScheduler_Start_And_ContextCancel_ShutsDown(t *testing.T) {
	s := NewScheduler(new(MockSyncer), 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.sched)

	cancel()

	require.Eventually(t, func() bool { return s.sched == nil }, 2*time.Second, 10*time.Millisecond,
		"expected scheduler to be shutdown after ctx cancel")
}

func TestScheduler_RunsSync(t *testing.T) {
	syncer := new(MockSyncer)
	done := make(chan struct{}, 1)
	syncer.On("Sync", mock.Anything).Return(SyncReport{ExecID: "x"}, nil).Run(func(mock.Arguments) {
		select {
		case done <- struct{}{}:
		default:
		}
	})

	s := NewScheduler(syncer, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sync was not triggered")
	}
	require.NoError(t, s.Shutdown())
}

func TestScheduler_Shutdown_AfterStart_Idempotent(t *testing.T) {
	s := NewScheduler(new(MockSyncer), 10*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.sched)

	require.NoError(t, s.Shutdown())
	require.Nil(t, s.sched)

	require.NoError(t, s.Shutdown())
}

func TestNewScheduler_UsesProvidedInterval(t *testing.T) {
	s := NewScheduler(new(MockSyncer), 42*time.Second)
	require.Equal(t, 42*time.Second, s.syncInterval)
}

func TestNewScheduler_DefaultsIntervalWhenInvalid(t *testing.T) {
	s := NewScheduler(new(MockSyncer), 0)
	require.Equal(t, time.Hour, s.syncInterval)
}

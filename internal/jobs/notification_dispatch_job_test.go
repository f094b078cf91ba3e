package jobs_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/notification"
	"codship/internal/jobs"
)

type MockNotificationOutbox struct {
	mock.Mock
}

func (m *MockNotificationOutbox) Add(ctx context.Context, intent notification.Intent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func (m *MockNotificationOutbox) GetPending(ctx context.Context, limit int) ([]notification.Intent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Intent), args.Error(1)
}

func (m *MockNotificationOutbox) MarkSent(ctx context.Context, intentID kernel.UUID) error {
	args := m.Called(ctx, intentID)
	return args.Error(0)
}

func (m *MockNotificationOutbox) MarkFailed(ctx context.Context, intentID kernel.UUID, attempts int, final bool) error {
	args := m.Called(ctx, intentID, attempts, final)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, intent notification.Intent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func newIntent(t *testing.T, attempts int) notification.Intent {
	t.Helper()
	intent, err := notification.NewIntent(
		kernel.NewUUID(),
		"shipped",
		notification.ChannelSMS,
		"+201000000000",
		"Your order is on its way, tracking TRK-1",
		time.Now(),
	)
	require.NoError(t, err)
	intent.Attempts = attempts
	return intent
}

func newJob(outbox *MockNotificationOutbox, notifier *MockNotifier) *jobs.NotificationDispatchJob {
	return jobs.NewNotificationDispatchJob(outbox, notifier, slog.Default())
}

func TestDispatchPending_SendsAndMarksSent(t *testing.T) {
	outbox := new(MockNotificationOutbox)
	notifier := new(MockNotifier)
	first := newIntent(t, 0)
	second := newIntent(t, 0)

	outbox.On("GetPending", mock.Anything, 50).Return([]notification.Intent{first, second}, nil).Once()
	notifier.On("Send", mock.Anything, first).Return(nil).Once()
	notifier.On("Send", mock.Anything, second).Return(nil).Once()
	outbox.On("MarkSent", mock.Anything, first.ID).Return(nil).Once()
	outbox.On("MarkSent", mock.Anything, second.ID).Return(nil).Once()

	err := newJob(outbox, notifier).DispatchPending(t.Context())

	require.NoError(t, err)
	outbox.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestDispatchPending_FailureBumpsAttemptsAndContinues(t *testing.T) {
	outbox := new(MockNotificationOutbox)
	notifier := new(MockNotifier)
	failing := newIntent(t, 0)
	healthy := newIntent(t, 0)

	outbox.On("GetPending", mock.Anything, 50).Return([]notification.Intent{failing, healthy}, nil).Once()
	notifier.On("Send", mock.Anything, failing).Return(errors.New("gateway unavailable")).Once()
	outbox.On("MarkFailed", mock.Anything, failing.ID, 1, false).Return(nil).Once()
	notifier.On("Send", mock.Anything, healthy).Return(nil).Once()
	outbox.On("MarkSent", mock.Anything, healthy.ID).Return(nil).Once()

	err := newJob(outbox, notifier).DispatchPending(t.Context())

	require.NoError(t, err)
	outbox.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestDispatchPending_ExhaustedBudgetIsFinal(t *testing.T) {
	outbox := new(MockNotificationOutbox)
	notifier := new(MockNotifier)
	exhausted := newIntent(t, 4)

	outbox.On("GetPending", mock.Anything, 50).Return([]notification.Intent{exhausted}, nil).Once()
	notifier.On("Send", mock.Anything, exhausted).Return(errors.New("gateway unavailable")).Once()
	outbox.On("MarkFailed", mock.Anything, exhausted.ID, 5, true).Return(nil).Once()

	err := newJob(outbox, notifier).DispatchPending(t.Context())

	require.NoError(t, err)
	outbox.AssertExpectations(t)
}

func TestDispatchPending_EmptyOutbox_NoSends(t *testing.T) {
	outbox := new(MockNotificationOutbox)
	notifier := new(MockNotifier)

	outbox.On("GetPending", mock.Anything, 50).Return([]notification.Intent{}, nil).Once()

	err := newJob(outbox, notifier).DispatchPending(t.Context())

	require.NoError(t, err)
	notifier.AssertNotCalled(t, "Send")
}

func TestDispatchPending_OutboxReadError(t *testing.T) {
	outbox := new(MockNotificationOutbox)
	notifier := new(MockNotifier)

	outbox.On("GetPending", mock.Anything, 50).Return(nil, errors.New("database error")).Once()

	err := newJob(outbox, notifier).DispatchPending(t.Context())

	require.Error(t, err)
}

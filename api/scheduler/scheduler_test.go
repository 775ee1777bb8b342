package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

type mockReconciler struct{ mock.Mock }

func (m *mockReconciler) Reconcile(ctx context.Context) (*mentorship.ReconcileReport, error) {
	ret := m.Called(ctx)
	report, _ := ret.Get(0).(*mentorship.ReconcileReport)
	return report, ret.Error(1)
}

type mockStats struct{ mock.Mock }

func (m *mockStats) Refresh(ctx context.Context) (*models.MentorshipStats, error) {
	ret := m.Called(ctx)
	stats, _ := ret.Get(0).(*models.MentorshipStats)
	return stats, ret.Error(1)
}

type mockLocker struct{ mock.Mock }

func (m *mockLocker) TryLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	ret := m.Called(ctx, name, owner, ttl)
	return ret.Bool(0), ret.Error(1)
}

func (m *mockLocker) Unlock(ctx context.Context, name, owner string) error {
	return m.Called(ctx, name, owner).Error(0)
}

func TestRunHoldsTheLock(t *testing.T) {
	rec := &mockReconciler{}
	rec.On("Reconcile", mock.Anything).Return(&mentorship.ReconcileReport{Mentors: 2}, nil)
	locker := &mockLocker{}
	locker.On("TryLock", mock.Anything, ReconcileJob, mock.Anything, time.Minute).Return(true, nil)
	locker.On("Unlock", mock.Anything, ReconcileJob, mock.Anything).Return(nil)

	s := NewScheduler(rec, &mockStats{}, locker)
	ran := s.run(ReconcileJob, time.Minute, s.reconcile)

	assert.True(t, ran)
	rec.AssertExpectations(t)
	locker.AssertExpectations(t)
}

func TestRunSkipsWhenLockIsHeld(t *testing.T) {
	rec := &mockReconciler{}
	locker := &mockLocker{}
	locker.On("TryLock", mock.Anything, ReconcileJob, mock.Anything, mock.Anything).Return(false, nil)

	s := NewScheduler(rec, &mockStats{}, locker)
	ran := s.run(ReconcileJob, time.Minute, s.reconcile)

	assert.False(t, ran)
	rec.AssertNotCalled(t, "Reconcile", mock.Anything)
	locker.AssertNotCalled(t, "Unlock", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunSkipsWhenLockFails(t *testing.T) {
	stats := &mockStats{}
	locker := &mockLocker{}
	locker.On("TryLock", mock.Anything, RefreshStatsJob, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	s := NewScheduler(&mockReconciler{}, stats, locker)

	assert.False(t, s.run(RefreshStatsJob, time.Minute, s.refreshStats))
	stats.AssertNotCalled(t, "Refresh", mock.Anything)
}

func TestRunWithoutLocker(t *testing.T) {
	stats := &mockStats{}
	stats.On("Refresh", mock.Anything).Return(nil, errors.New("mongo down"))

	s := NewScheduler(&mockReconciler{}, stats, nil)

	assert.True(t, s.run(RefreshStatsJob, time.Minute, s.refreshStats))
	stats.AssertExpectations(t)
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(&mockReconciler{}, &mockStats{}, nil)

	err := s.Start("not a cron spec", "*/10 * * * *")

	assert.Error(t, err)
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler(&mockReconciler{}, &mockStats{}, nil)

	assert.NoError(t, s.Start("0 4 * * *", "*/10 * * * *"))
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}

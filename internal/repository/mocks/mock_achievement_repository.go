package mocks

import (
	"context"
	"time"

	"certapi/internal/model"
	"certapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) Create(ctx context.Context, a *model.Achievement) (*model.Achievement, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) FindByID(ctx context.Context, id string) (*model.Achievement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Achievement, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Achievement], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Achievement]), args.Error(1)
}

func (m *MockAchievementRepository) UpdateStatus(ctx context.Context, id string, status model.AchievementStatus, comment string, reviewedAt time.Time) error {
	args := m.Called(ctx, id, status, comment, reviewedAt)
	return args.Error(0)
}

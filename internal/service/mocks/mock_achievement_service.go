package mocks

import (
	"context"

	"certapi/internal/model"
	"certapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAchievementService struct {
	mock.Mock
}

func (m *MockAchievementService) Create(ctx context.Context, a *model.Achievement) (*model.Achievement, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Achievement), args.Error(1)
}

func (m *MockAchievementService) Get(ctx context.Context, id string) (*model.Achievement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Achievement), args.Error(1)
}

func (m *MockAchievementService) ListForOwner(ctx context.Context, ownerID int64) ([]model.Achievement, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Achievement), args.Error(1)
}

func (m *MockAchievementService) List(ctx context.Context, limit, offset int) (*service.AchievementListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AchievementListResult), args.Error(1)
}

func (m *MockAchievementService) Approve(ctx context.Context, id, comment string) (*model.Achievement, error) {
	args := m.Called(ctx, id, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Achievement), args.Error(1)
}

func (m *MockAchievementService) Reject(ctx context.Context, id, comment string) (*model.Achievement, error) {
	args := m.Called(ctx, id, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Achievement), args.Error(1)
}

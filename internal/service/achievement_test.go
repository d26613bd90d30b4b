package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"certapi/internal/model"
	"certapi/internal/repository"
	repoMocks "certapi/internal/repository/mocks"
)

func TestAchievementService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      *model.Achievement
		setupMocks func(mRepo *repoMocks.MockAchievementRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			input: &model.Achievement{
				OwnerID:     1,
				Title:       "Math Olympiad",
				EvidenceURL: "/uploads/certificates/1/cert_1_x.jpg",
			},
			setupMocks: func(mRepo *repoMocks.MockAchievementRepository) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(a *model.Achievement) bool {
					return a.ID != "" && a.Status == model.StatusPending && !a.CreatedAt.IsZero()
				})).Return(&model.Achievement{ID: "gen-id", Status: model.StatusPending}, nil)
			},
		},
		{
			name:       "missing title",
			input:      &model.Achievement{OwnerID: 1, EvidenceURL: "/uploads/certificates/1/x.jpg"},
			setupMocks: func(mRepo *repoMocks.MockAchievementRepository) {},
			wantErr:    ErrTitleRequired,
		},
		{
			name:       "missing evidence url",
			input:      &model.Achievement{OwnerID: 1, Title: "t"},
			setupMocks: func(mRepo *repoMocks.MockAchievementRepository) {},
			wantErr:    ErrEvidenceRequired,
		},
		{
			name:  "repository error",
			input: &model.Achievement{OwnerID: 1, Title: "t", EvidenceURL: "/uploads/certificates/1/x.jpg"},
			setupMocks: func(mRepo *repoMocks.MockAchievementRepository) {
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAchievementRepository)
			svc := NewAchievementService(mRepo)

			tt.setupMocks(mRepo)

			got, err := svc.Create(ctx, tt.input)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrTitleRequired) || errors.Is(tt.wantErr, ErrEvidenceRequired) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
				}
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, got)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAchievementService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockAchievementRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mRepo *repoMocks.MockAchievementRepository) {
				mRepo.On("FindByID", ctx, "valid-id").Return(&model.Achievement{ID: "valid-id"}, nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockAchievementRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   "missing-id",
			setupMocks: func(mRepo *repoMocks.MockAchievementRepository) {
				mRepo.On("FindByID", ctx, "missing-id").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAchievementRepository)
			svc := NewAchievementService(mRepo)

			tt.setupMocks(mRepo)

			got, err := svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, got.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAchievementService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("pagination boundary - zero limit uses default", func(t *testing.T) {
		mRepo := new(repoMocks.MockAchievementRepository)
		mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.Achievement]{Items: []model.Achievement{}, Total: 0}, nil)

		svc := NewAchievementService(mRepo)
		res, err := svc.List(ctx, 0, -1)

		assert.NoError(t, err)
		assert.Zero(t, res.Total)
		mRepo.AssertExpectations(t)
	})

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockAchievementRepository)
		mRepo.On("List", ctx, repository.PageQuery{Limit: 5, Offset: 10}).
			Return(&repository.PageResult[model.Achievement]{
				Items: []model.Achievement{{ID: "1"}, {ID: "2"}},
				Total: 12,
			}, nil)

		svc := NewAchievementService(mRepo)
		res, err := svc.List(ctx, 5, 10)

		assert.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 12, res.Total)
	})
}

func TestAchievementService_Review(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		review     func(svc AchievementService) (*model.Achievement, error)
		setupMocks func(mRepo *repoMocks.MockAchievementRepository)
		wantStatus model.AchievementStatus
		wantErr    error
	}{
		{
			name: "approve pending",
			id:   "a1",
			review: func(svc AchievementService) (*model.Achievement, error) {
				return svc.Approve(ctx, "a1", "looks valid")
			},
			setupMocks: func(mRepo *repoMocks.MockAchievementRepository) {
				mRepo.On("FindByID", ctx, "a1").Return(&model.Achievement{ID: "a1", Status: model.StatusPending}, nil)
				mRepo.On("UpdateStatus", ctx, "a1", model.StatusApproved, "looks valid", mock.AnythingOfType("time.Time")).Return(nil)
			},
			wantStatus: model.StatusApproved,
		},
		{
			name: "reject pending",
			id:   "a2",
			review: func(svc AchievementService) (*model.Achievement, error) {
				return svc.Reject(ctx, "a2", "unreadable scan")
			},
			setupMocks: func(mRepo *repoMocks.MockAchievementRepository) {
				mRepo.On("FindByID", ctx, "a2").Return(&model.Achievement{ID: "a2", Status: model.StatusPending}, nil)
				mRepo.On("UpdateStatus", ctx, "a2", model.StatusRejected, "unreadable scan", mock.AnythingOfType("time.Time")).Return(nil)
			},
			wantStatus: model.StatusRejected,
		},
		{
			name: "already reviewed",
			id:   "a3",
			review: func(svc AchievementService) (*model.Achievement, error) {
				return svc.Approve(ctx, "a3", "")
			},
			setupMocks: func(mRepo *repoMocks.MockAchievementRepository) {
				mRepo.On("FindByID", ctx, "a3").Return(&model.Achievement{ID: "a3", Status: model.StatusApproved}, nil)
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name: "missing record",
			id:   "a4",
			review: func(svc AchievementService) (*model.Achievement, error) {
				return svc.Reject(ctx, "a4", "")
			},
			setupMocks: func(mRepo *repoMocks.MockAchievementRepository) {
				mRepo.On("FindByID", ctx, "a4").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAchievementRepository)
			svc := NewAchievementService(mRepo)

			tt.setupMocks(mRepo)

			got, err := tt.review(svc)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStatus, got.Status)
				assert.NotNil(t, got.ReviewedAt)
				assert.WithinDuration(t, time.Now(), *got.ReviewedAt, time.Minute)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"certapi/internal/model"
	"certapi/internal/repository"
)

var (
	ErrIDRequired        = errors.New("id is required")
	ErrTitleRequired     = errors.New("title is required")
	ErrEvidenceRequired  = errors.New("evidence url is required")
	ErrNotFound          = errors.New("achievement not found")
	ErrInvalidTransition = errors.New("achievement has already been reviewed")
)

// AchievementListResult is the service-level DTO for paginated achievements.
type AchievementListResult struct {
	Items []model.Achievement `json:"data"`
	Total int                 `json:"total"`
}

// AchievementService owns the audit lifecycle of achievement records:
// creation from stored evidence plus extracted certificate fields, and
// the single Pending → Approved/Rejected transition.
type AchievementService interface {
	// Create registers a new pending achievement referencing already
	// stored evidence.
	Create(ctx context.Context, a *model.Achievement) (*model.Achievement, error)

	// Get returns a single achievement by its ID.
	Get(ctx context.Context, id string) (*model.Achievement, error)

	// ListForOwner returns one owner's achievements, newest first.
	ListForOwner(ctx context.Context, ownerID int64) ([]model.Achievement, error)

	// List returns achievements across all owners using limit/offset and
	// a total count.
	List(ctx context.Context, limit, offset int) (*AchievementListResult, error)

	// Approve moves a pending achievement to approved.
	Approve(ctx context.Context, id, comment string) (*model.Achievement, error)

	// Reject moves a pending achievement to rejected.
	Reject(ctx context.Context, id, comment string) (*model.Achievement, error)
}

type achievementService struct {
	repo repository.AchievementRepository
}

// NewAchievementService constructs a new AchievementService.
func NewAchievementService(repo repository.AchievementRepository) AchievementService {
	return &achievementService{repo: repo}
}

func (s *achievementService) Create(ctx context.Context, a *model.Achievement) (*model.Achievement, error) {
	if a.Title == "" {
		return nil, ErrTitleRequired
	}
	if a.EvidenceURL == "" {
		return nil, ErrEvidenceRequired
	}

	a.ID = uuid.New().String()
	a.Status = model.StatusPending
	a.CreatedAt = time.Now().UTC()
	a.ReviewedAt = nil

	return s.repo.Create(ctx, a)
}

func (s *achievementService) Get(ctx context.Context, id string) (*model.Achievement, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *achievementService) ListForOwner(ctx context.Context, ownerID int64) ([]model.Achievement, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *achievementService) List(ctx context.Context, limit, offset int) (*AchievementListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &AchievementListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *achievementService) Approve(ctx context.Context, id, comment string) (*model.Achievement, error) {
	return s.review(ctx, id, model.StatusApproved, comment)
}

func (s *achievementService) Reject(ctx context.Context, id, comment string) (*model.Achievement, error) {
	return s.review(ctx, id, model.StatusRejected, comment)
}

// review performs the audit transition. Only pending records may move;
// a second review attempt fails with ErrInvalidTransition.
func (s *achievementService) review(ctx context.Context, id string, status model.AchievementStatus, comment string) (*model.Achievement, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.Status != model.StatusPending {
		return nil, ErrInvalidTransition
	}

	reviewedAt := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, status, comment, reviewedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	a.Status = status
	a.ReviewComment = comment
	a.ReviewedAt = &reviewedAt
	return a, nil
}

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import (
	"context"
	"time"

	"certapi/internal/model"
)

// AchievementRepository defines data access for achievement audit
// records using SQL queries only. No business logic here — strictly
// persistence operations.
type AchievementRepository interface {
	// Create inserts a new achievement row.
	// Returns the stored record (may include values set by the DB).
	Create(ctx context.Context, a *model.Achievement) (*model.Achievement, error)

	// FindByID returns an achievement by its ID.
	FindByID(ctx context.Context, id string) (*model.Achievement, error)

	// ListByOwner returns every achievement belonging to one owner,
	// newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Achievement, error)

	// List returns a paginated list of achievements and a total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Achievement], error)

	// UpdateStatus transitions an achievement's audit status and records
	// the review comment and time. It reports sql.ErrNoRows when the row
	// does not exist.
	UpdateStatus(ctx context.Context, id string, status model.AchievementStatus, comment string, reviewedAt time.Time) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"certapi/internal/model"
	"certapi/internal/repository"
)

// AchievementPostgres is a PostgreSQL implementation of
// repository.AchievementRepository. It uses database/sql with
// parameterized queries and contains no business logic.
type AchievementPostgres struct {
	db *sql.DB
}

// NewAchievementPostgres creates a new AchievementPostgres repository.
func NewAchievementPostgres(db *sql.DB) *AchievementPostgres {
	return &AchievementPostgres{db: db}
}

var _ repository.AchievementRepository = (*AchievementPostgres)(nil)

const achievementColumns = `id, owner_id, title, category, award_level, issuing_organization, issue_date, evidence_url, content, status, review_comment, created_at, reviewed_at`

func scanAchievement(row interface{ Scan(...any) error }) (*model.Achievement, error) {
	var a model.Achievement
	var reviewedAt sql.NullTime
	if err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.Title,
		&a.Category,
		&a.AwardLevel,
		&a.IssuingOrganization,
		&a.IssueDate,
		&a.EvidenceURL,
		&a.Content,
		&a.Status,
		&a.ReviewComment,
		&a.CreatedAt,
		&reviewedAt,
	); err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		a.ReviewedAt = &reviewedAt.Time
	}
	return &a, nil
}

// Create inserts a new achievement row and returns the stored record.
func (r *AchievementPostgres) Create(ctx context.Context, a *model.Achievement) (*model.Achievement, error) {
	const q = `
		INSERT INTO achievements (id, owner_id, title, category, award_level, issuing_organization, issue_date, evidence_url, content, status, review_comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + achievementColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.OwnerID,
		a.Title,
		a.Category,
		a.AwardLevel,
		a.IssuingOrganization,
		a.IssueDate,
		a.EvidenceURL,
		a.Content,
		a.Status,
		a.ReviewComment,
		a.CreatedAt,
	)
	return scanAchievement(row)
}

// FindByID fetches a single achievement by its ID.
func (r *AchievementPostgres) FindByID(ctx context.Context, id string) (*model.Achievement, error) {
	const q = `
		SELECT ` + achievementColumns + `
		FROM achievements
		WHERE id = $1
	`
	return scanAchievement(r.db.QueryRowContext(ctx, q, id))
}

// ListByOwner returns the owner's achievements, newest first.
func (r *AchievementPostgres) ListByOwner(ctx context.Context, ownerID int64) ([]model.Achievement, error) {
	const q = `
		SELECT ` + achievementColumns + `
		FROM achievements
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Achievement, 0)
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// List returns achievements using LIMIT/OFFSET pagination and a total count.
func (r *AchievementPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Achievement], error) {
	const qCount = `SELECT COUNT(*) FROM achievements`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + achievementColumns + `
		FROM achievements
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Achievement, 0)
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Achievement]{
		Items: items,
		Total: total,
	}, nil
}

// UpdateStatus transitions the audit status of one achievement.
func (r *AchievementPostgres) UpdateStatus(ctx context.Context, id string, status model.AchievementStatus, comment string, reviewedAt time.Time) error {
	const q = `
		UPDATE achievements
		SET status = $2, review_comment = $3, reviewed_at = $4
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, id, status, comment, reviewedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

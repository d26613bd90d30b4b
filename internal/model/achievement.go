package model

import "time"

// AchievementStatus is the audit state of an achievement record.
type AchievementStatus string

const (
	StatusPending  AchievementStatus = "pending"
	StatusApproved AchievementStatus = "approved"
	StatusRejected AchievementStatus = "rejected"
)

// Achievement is the audit record created from a stored evidence file
// and the certificate fields extracted from it. Records start pending
// and move exactly once to approved or rejected.
type Achievement struct {
	ID                  string            `json:"id"`
	OwnerID             int64             `json:"owner_id"`
	Title               string            `json:"title"`
	Category            string            `json:"category,omitempty"`
	AwardLevel          string            `json:"award_level,omitempty"`
	IssuingOrganization string            `json:"issuing_organization,omitempty"`
	IssueDate           string            `json:"issue_date,omitempty"`
	EvidenceURL         string            `json:"evidence_url"`
	// Content is the extracted certificate record serialized as JSON.
	Content       string            `json:"content,omitempty"`
	Status        AchievementStatus `json:"status"`
	ReviewComment string            `json:"review_comment,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"`
}

package model

import "time"

// CertificateRecord holds the structured fields extracted from one
// certificate image by the external recognition service. It is produced
// once per recognition attempt and never mutated afterwards.
//
// The three mandatory fields are guaranteed non-empty (after trimming)
// whenever a record is returned inside a successful envelope; a record
// that fails that check is never surfaced as success.
type CertificateRecord struct {
	CertificateName     string `json:"certificate_name"`
	RecipientName       string `json:"recipient_name"`
	IssuingOrganization string `json:"issuing_organization"`

	// Optional fields; null in JSON when the model could not read them.
	IssueDate         *string `json:"issue_date"`
	CertificateNumber *string `json:"certificate_number"`
	AwardLevel        *string `json:"award_level"`
	Category          *string `json:"category"`
	AdditionalInfo    *string `json:"additional_info"`

	// Recognition metadata attached at extraction time.
	RecognitionTime time.Time `json:"recognition_time"`
	ModelUsed       string    `json:"model_used"`
	Confidence      string    `json:"confidence"`
}

// RecognitionEnvelope is the uniform result of one recognition attempt.
// Exactly one of Data or Error is populated.
type RecognitionEnvelope struct {
	Success bool               `json:"success"`
	Data    *CertificateRecord `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
	// RawResponse carries the model's textual reply for diagnostics.
	RawResponse string `json:"raw_response,omitempty"`
}

// BatchRecognitionItem pairs one input file with its envelope.
type BatchRecognitionItem struct {
	Filename string `json:"filename"`
	RecognitionEnvelope
}

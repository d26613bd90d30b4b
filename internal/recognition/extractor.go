package recognition

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"certapi/internal/model"
)

// confidenceLabel is a static qualitative label; the external service
// does not report a measured score.
const confidenceLabel = "high"

// requiredFields are the mandatory keys of a certificate record, in
// reporting order.
var requiredFields = []string{"certificate_name", "recipient_name", "issuing_organization"}

// MalformedResponseError means the model's reply could not be recovered
// as a JSON object even after fence stripping. Raw carries the offending
// substring for diagnostics.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to parse JSON response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ValidationError means JSON was recovered but one or more mandatory
// fields are missing or empty. Missing names every offending field, not
// just the first.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// wireRecord mirrors the eight-key JSON object the model is instructed
// to return. Optional fields stay pointers so absent and null are
// preserved as explicit nulls in the output record.
type wireRecord struct {
	CertificateName     string  `json:"certificate_name"`
	RecipientName       string  `json:"recipient_name"`
	IssuingOrganization string  `json:"issuing_organization"`
	IssueDate           *string `json:"issue_date"`
	CertificateNumber   *string `json:"certificate_number"`
	AwardLevel          *string `json:"award_level"`
	Category            *string `json:"category"`
	AdditionalInfo      *string `json:"additional_info"`
}

// Extract recovers a structured certificate record from the model's
// free-form textual reply: fence strip, JSON decode, mandatory-field
// validation, then normalization plus recognition metadata.
func Extract(raw, modelUsed string) (*model.CertificateRecord, error) {
	text := stripCodeFence(raw)

	var wire wireRecord
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, &MalformedResponseError{Raw: text, Err: err}
	}

	wire.CertificateName = strings.TrimSpace(wire.CertificateName)
	wire.RecipientName = strings.TrimSpace(wire.RecipientName)
	wire.IssuingOrganization = strings.TrimSpace(wire.IssuingOrganization)

	var missing []string
	for _, f := range requiredFields {
		switch f {
		case "certificate_name":
			if wire.CertificateName == "" {
				missing = append(missing, f)
			}
		case "recipient_name":
			if wire.RecipientName == "" {
				missing = append(missing, f)
			}
		case "issuing_organization":
			if wire.IssuingOrganization == "" {
				missing = append(missing, f)
			}
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	return &model.CertificateRecord{
		CertificateName:     wire.CertificateName,
		RecipientName:       wire.RecipientName,
		IssuingOrganization: wire.IssuingOrganization,
		IssueDate:           wire.IssueDate,
		CertificateNumber:   wire.CertificateNumber,
		AwardLevel:          wire.AwardLevel,
		Category:            wire.Category,
		AdditionalInfo:      wire.AdditionalInfo,
		RecognitionTime:     time.Now().UTC(),
		ModelUsed:           modelUsed,
		Confidence:          confidenceLabel,
	}, nil
}

// stripCodeFence extracts the payload from a markdown-fenced reply. A
// json-tagged fence wins over a generic one; unfenced text passes
// through unchanged.
func stripCodeFence(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		rest := s[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+len("```"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(s)
}

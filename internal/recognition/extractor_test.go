package recognition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validJSON = `{"certificate_name":"Math Olympiad","recipient_name":"Zhang San","issuing_organization":"City Edu Bureau","issue_date":"2023-05-01"}`

func TestExtract_FenceVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json-tagged fence", "```json\n" + validJSON + "\n```"},
		{"generic fence", "```\n" + validJSON + "\n```"},
		{"unfenced", validJSON},
		{"fence with leading prose", "Here is the result:\n```json\n" + validJSON + "\n```\nLet me know if you need more."},
		{"unclosed json fence", "```json\n" + validJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Extract(tt.raw, "qwen-vl-plus")
			require.NoError(t, err)

			assert.Equal(t, "Math Olympiad", rec.CertificateName)
			assert.Equal(t, "Zhang San", rec.RecipientName)
			assert.Equal(t, "City Edu Bureau", rec.IssuingOrganization)
			require.NotNil(t, rec.IssueDate)
			assert.Equal(t, "2023-05-01", *rec.IssueDate)
		})
	}
}

func TestExtract_MissingFields(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantMissing []string
	}{
		{
			"all mandatory absent",
			`{"issue_date":"2023-05-01"}`,
			[]string{"certificate_name", "recipient_name", "issuing_organization"},
		},
		{
			"one absent",
			`{"certificate_name":"A","issuing_organization":"B"}`,
			[]string{"recipient_name"},
		},
		{
			"whitespace-only counts as missing",
			`{"certificate_name":"  ","recipient_name":"Zhang San","issuing_organization":"\t\n"}`,
			[]string{"certificate_name", "issuing_organization"},
		},
		{
			"null mandatory field",
			`{"certificate_name":null,"recipient_name":"Zhang San","issuing_organization":"B"}`,
			[]string{"certificate_name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Extract(tt.raw, "qwen-vl-plus")
			assert.Nil(t, rec)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantMissing, vErr.Missing)
		})
	}
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not JSON at all", "I could not read this certificate, sorry."},
		{"truncated object", "```json\n{\"certificate_name\": \"A\"\n```"},
		{"fenced non-JSON", "```\nhello\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Extract(tt.raw, "qwen-vl-plus")
			assert.Nil(t, rec)

			var mErr *MalformedResponseError
			require.True(t, errors.As(err, &mErr))
			assert.NotEmpty(t, mErr.Raw, "offending substring is kept for diagnostics")
		})
	}
}

func TestExtract_NormalizationAndMetadata(t *testing.T) {
	raw := "```json\n" + validJSON + "\n```"

	rec, err := Extract(raw, "qwen-vl-plus")
	require.NoError(t, err)

	// Optional fields the reply omitted stay explicit nulls.
	assert.Nil(t, rec.CertificateNumber)
	assert.Nil(t, rec.AwardLevel)
	assert.Nil(t, rec.Category)
	assert.Nil(t, rec.AdditionalInfo)

	assert.False(t, rec.RecognitionTime.IsZero())
	assert.Equal(t, "qwen-vl-plus", rec.ModelUsed)
	assert.Equal(t, "high", rec.Confidence)
}

func TestExtract_TrimsMandatoryFields(t *testing.T) {
	raw := `{"certificate_name":"  Math Olympiad  ","recipient_name":" Zhang San","issuing_organization":"City Edu Bureau "}`

	rec, err := Extract(raw, "m")
	require.NoError(t, err)
	assert.Equal(t, "Math Olympiad", rec.CertificateName)
	assert.Equal(t, "Zhang San", rec.RecipientName)
	assert.Equal(t, "City Edu Bureau", rec.IssuingOrganization)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, "{}", stripCodeFence("```json\n{}\n```"))
	assert.Equal(t, "{}", stripCodeFence("```\n{}\n```"))
	assert.Equal(t, "{}", stripCodeFence("  {}  "))
	// The json-tagged fence wins even when a generic fence comes first.
	assert.Equal(t, "{\"a\":1}", stripCodeFence("```json\n{\"a\":1}\n```"))
}

package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"certapi/internal/config"
	"certapi/internal/model"
)

// prompt is the fixed instruction sent with every image. It directs the
// model to answer with exactly the eight-key JSON object the extractor
// expects, using null for unreadable fields.
const prompt = `Identify this award or achievement certificate and extract the following information:
1. Certificate or award name
2. Recipient name
3. Issuing organization
4. Issue date
5. Certificate number (if present)
6. Award level (e.g. first prize, second prize, third prize)
7. Award category (e.g. academic competition, technology innovation, sports or arts)
8. Any other important information

Return the result as JSON in exactly this format:
{
    "certificate_name": "certificate or award name",
    "recipient_name": "recipient name",
    "issuing_organization": "issuing organization",
    "issue_date": "YYYY-MM-DD",
    "certificate_number": "certificate number (if present)",
    "award_level": "award level",
    "category": "award category",
    "additional_info": "other important information"
}

Use null for any field that cannot be identified.`

// Request/response shapes of the external multimodal generation API.

type apiRequest struct {
	Model string   `json:"model"`
	Input apiInput `json:"input"`
}

type apiInput struct {
	Messages []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Image string `json:"image,omitempty"`
	Text  string `json:"text,omitempty"`
}

type apiResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
}

// Client calls the external vision-language service and converts every
// outcome, success or failure, into a uniform recognition envelope. It
// performs no retries; a failed attempt is reported immediately.
//
// Client is constructed once at startup and is safe for concurrent use.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	apiURL       string
	model        string
	recognitions *prometheus.CounterVec
}

// NewClient builds a recognition client from configuration. reg may be
// nil to skip metric registration (used by tests sharing a registry).
func NewClient(cfg config.RecognitionConfig, reg prometheus.Registerer) (*Client, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		apiKey: cfg.APIKey,
		apiURL: cfg.APIURL,
		model:  cfg.Model,
		recognitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "certificate_recognitions_total",
				Help: "Total number of certificate recognition attempts by outcome.",
			},
			[]string{"outcome"},
		),
	}

	if reg != nil {
		if err := reg.Register(c.recognitions); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Recognize reads the image at imagePath, sends it to the external
// service and returns the extraction result as an envelope. The file is
// expected to exist and to have been validated by the evidence store;
// no size or type checks happen here.
func (c *Client) Recognize(ctx context.Context, imagePath string) *model.RecognitionEnvelope {
	if c.apiKey == "" {
		return c.fail("config_error", "recognition API key is not configured", "")
	}

	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		return c.fail("read_error", fmt.Sprintf("failed to read image: %v", err), "")
	}

	reqBody := apiRequest{
		Model: c.model,
		Input: apiInput{
			Messages: []apiMessage{
				{
					Role: "user",
					Content: []apiContent{
						{Image: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageBytes)},
						{Text: prompt},
					},
				},
			},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return c.fail("config_error", fmt.Sprintf("failed to encode request: %v", err), "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return c.fail("config_error", fmt.Sprintf("failed to build request: %v", err), "")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail("transport_error", fmt.Sprintf("API request failed: %v", err), "")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return c.fail("api_error", fmt.Sprintf("API request failed: status %d", resp.StatusCode), string(body))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return c.fail("bad_response", "unexpected response format from API", "")
	}
	if len(apiResp.Output.Choices) == 0 {
		return c.fail("bad_response", "unexpected response format from API", "")
	}
	content := apiResp.Output.Choices[0].Message.Content

	record, err := Extract(content, c.model)
	if err != nil {
		var malformed *MalformedResponseError
		if errors.As(err, &malformed) {
			return c.fail("malformed_response", malformed.Error(), content)
		}
		var invalid *ValidationError
		if errors.As(err, &invalid) {
			return c.fail("validation_error", invalid.Error(), content)
		}
		return c.fail("bad_response", err.Error(), content)
	}

	c.recognitions.WithLabelValues("success").Inc()
	return &model.RecognitionEnvelope{
		Success:     true,
		Data:        record,
		RawResponse: content,
	}
}

// RecognizeBatch processes the images one at a time, in input order,
// with one envelope per input. One item's failure never aborts the
// batch.
func (c *Client) RecognizeBatch(ctx context.Context, imagePaths []string) []*model.RecognitionEnvelope {
	results := make([]*model.RecognitionEnvelope, 0, len(imagePaths))
	for _, p := range imagePaths {
		results = append(results, c.Recognize(ctx, p))
	}
	return results
}

func (c *Client) fail(outcome, msg, raw string) *model.RecognitionEnvelope {
	c.recognitions.WithLabelValues(outcome).Inc()
	return &model.RecognitionEnvelope{
		Success:     false,
		Error:       msg,
		RawResponse: raw,
	}
}

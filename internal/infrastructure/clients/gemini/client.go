// Package gemini is a providers.TextGenerator backed by the Gemini
// generateContent REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medicalnetwork/internal/domain/providers"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/observability"
	"github.com/zatekoja/medicalnetwork/pkg/config"
	"github.com/zatekoja/medicalnetwork/pkg/retry"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-flash"
	providerName   = "gemini"
)

// ErrUnauthorized is returned when the API key is rejected
var ErrUnauthorized = errors.New("gemini: unauthorized")

// Client calls models/{model}:generateContent
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	retry      retry.Config
}

// NewClient creates a Gemini client
func NewClient(cfg *config.GeminiConfig, timeout time.Duration) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	retryCfg := retry.RequestConfig()
	retryCfg.Retryable = isRetryable

	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		retry:      retryCfg,
	}, nil
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("gemini request failed with status %d: %s", e.code, e.message)
	}
	return fmt.Sprintf("gemini request failed with status %d", e.code)
}

func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return !errors.Is(err, ErrUnauthorized) && !errors.Is(err, context.Canceled)
}

// Generate sends prompt and attachments and returns the concatenated text
// parts of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string, attachments []providers.Attachment) (string, error) {
	parts := make([]part, 0, len(attachments)+1)
	parts = append(parts, part{Text: prompt})
	for _, a := range attachments {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: a.MimeType,
			Data:     base64.StdEncoding.EncodeToString(a.Data),
		}})
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:      0.2,
			MaxOutputTokens:  2048,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	var text string
	err = retry.DoWithLog(ctx, c.retry, providerName, func() error {
		var callErr error
		text, callErr = c.call(ctx, endpoint, body)
		return callErr
	}, func(attempt int, err error, next time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", next).Str("model", c.model).Msg("Gemini request failed, retrying")
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) call(ctx context.Context, endpoint string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("gemini: create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordLLMRequest(ctx, providerName, c.model, 0, time.Since(start), err)
		return "", fmt.Errorf("gemini: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		observability.RecordLLMRequest(ctx, providerName, c.model, resp.StatusCode, time.Since(start), err)
		return "", fmt.Errorf("gemini: read response: %w", err)
	}

	var parsed generateResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &statusError{code: resp.StatusCode}
		if decodeErr == nil && parsed.Error != nil {
			se.message = parsed.Error.Message
		}
		observability.RecordLLMRequest(ctx, providerName, c.model, resp.StatusCode, time.Since(start), se)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", fmt.Errorf("%w: %v", ErrUnauthorized, se)
		}
		return "", se
	}
	if decodeErr != nil {
		observability.RecordLLMRequest(ctx, providerName, c.model, resp.StatusCode, time.Since(start), decodeErr)
		return "", retry.Permanent(fmt.Errorf("gemini: decode response: %w", decodeErr))
	}

	text := firstCandidateText(parsed)
	if text == "" {
		err := errors.New("gemini response has no text")
		observability.RecordLLMRequest(ctx, providerName, c.model, resp.StatusCode, time.Since(start), err)
		return "", retry.Permanent(err)
	}

	observability.RecordLLMRequest(ctx, providerName, c.model, resp.StatusCode, time.Since(start), nil)
	return text, nil
}

func firstCandidateText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String())
}

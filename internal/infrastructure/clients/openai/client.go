package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zatekoja/medicalnetwork/internal/domain/providers"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/observability"
	"github.com/zatekoja/medicalnetwork/pkg/config"
)

const (
	defaultBaseURL  = "https://api.openai.com/v1"
	providerName    = "openai"
	maxOutputTokens = 1200
)

// ErrUnauthorized is returned when the API key is rejected
var ErrUnauthorized = errors.New("openai: unauthorized")

// Client implements providers.TextGenerator on the OpenAI Responses API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
}

// NewClient creates a new OpenAI client.
func NewClient(cfg *config.OpenAIConfig, timeout time.Duration) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}, nil
}

type inputContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Filename string `json:"filename,omitempty"`
	FileData string `json:"file_data,omitempty"`
}

type inputMessage struct {
	Role    string         `json:"role"`
	Content []inputContent `json:"content"`
}

type requestBody struct {
	Model           string         `json:"model"`
	Input           []inputMessage `json:"input"`
	Temperature     float64        `json:"temperature"`
	MaxOutputTokens int            `json:"max_output_tokens"`
}

type responseContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseOutput struct {
	Content []responseContent `json:"content"`
}

type responseEnvelope struct {
	Output []responseOutput `json:"output"`
}

// Generate sends prompt and attachments and returns the first output text.
func (c *Client) Generate(ctx context.Context, prompt string, attachments []providers.Attachment) (string, error) {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			observability.RecordLLMRequest(ctx, providerName, c.model, 0, 0, err)
			return "", err
		}
		recordRateLimitWait(ctx, c.model, time.Since(waitStart))
	}

	body, err := json.Marshal(requestBody{
		Model:           c.model,
		Input:           []inputMessage{{Role: "user", Content: buildContent(prompt, attachments)}},
		Temperature:     0.2,
		MaxOutputTokens: maxOutputTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordLLMRequest(ctx, providerName, c.model, 0, time.Since(start), err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		statusErr := fmt.Errorf("openai request failed with status %d", resp.StatusCode)
		observability.RecordLLMRequest(ctx, providerName, c.model, resp.StatusCode, time.Since(start), statusErr)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
		}
		return "", statusErr
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		observability.RecordLLMRequest(ctx, providerName, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	text := firstOutputText(envelope)
	if text == "" {
		err := errors.New("openai response missing output text")
		observability.RecordLLMRequest(ctx, providerName, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	observability.RecordLLMRequest(ctx, providerName, c.model, resp.StatusCode, time.Since(start), nil)
	return text, nil
}

func buildContent(prompt string, attachments []providers.Attachment) []inputContent {
	content := []inputContent{{Type: "input_text", Text: prompt}}
	for i, a := range attachments {
		dataURI := "data:" + a.MimeType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
		if strings.HasPrefix(a.MimeType, "image/") {
			content = append(content, inputContent{Type: "input_image", ImageURL: dataURI})
			continue
		}
		content = append(content, inputContent{
			Type:     "input_file",
			Filename: fmt.Sprintf("report-%d.pdf", i+1),
			FileData: dataURI,
		})
	}
	return content
}

func firstOutputText(envelope responseEnvelope) string {
	for _, out := range envelope.Output {
		for _, content := range out.Content {
			if content.Type == "output_text" && content.Text != "" {
				return content.Text
			}
		}
	}
	return ""
}

func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm == 0 {
		rpm = 60
	}
	if rpm < 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}
	return newTokenBucketWithRate(rpm, burst)
}

type tokenBucket struct {
	tokens chan struct{}
}

func newTokenBucketWithRate(rpm int, burst int) *tokenBucket {
	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
	}

	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			select {
			case bucket.tokens <- struct{}{}:
			default:
			}
		}
	}()

	return bucket
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

var (
	rateLimitWaitOnce sync.Once
	rateLimitWait     metric.Float64Histogram
)

func recordRateLimitWait(ctx context.Context, model string, wait time.Duration) {
	rateLimitWaitOnce.Do(func() {
		h, err := otel.Meter("github.com/zatekoja/medicalnetwork/openai").Float64Histogram(
			"ai.openai.rate_limit.wait",
			metric.WithDescription("Time spent waiting for OpenAI rate limiter in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err == nil {
			rateLimitWait = h
		}
	})
	if rateLimitWait == nil {
		return
	}
	rateLimitWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(
		attribute.String("ai.provider", providerName),
		attribute.String("ai.model", model),
	))
}

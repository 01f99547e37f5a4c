package veo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/maraval/veogallery/internal/apperrors"
	"github.com/maraval/veogallery/internal/httpclient"
	"github.com/maraval/veogallery/internal/logger"
)

// DefaultBaseURL is the Generative Language API endpoint that hosts the Veo
// long-running prediction surface.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultPollInterval is the fixed wait between polls. Generation runs on
// the scale of minutes, so sub-second polling buys nothing.
const DefaultPollInterval = 10 * time.Second

// Service is the generation client contract. The gallery session and the
// CLI depend on this interface so tests can substitute MockService.
type Service interface {
	Submit(ctx context.Context, prompt string, cfg GenerateConfig) (*Operation, error)
	Poll(ctx context.Context, op *Operation) (*Operation, error)
	Results(op *Operation) ([]VideoRef, error)
	FetchVideo(ctx context.Context, ref VideoRef) (Payload, error)
}

// Client talks to the Veo REST API. The generative-ai-go SDK has no video
// surface, so the long-running prediction protocol is spoken directly.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

var _ Service = (*Client)(nil)

// NewClient creates a generation client. The API key is injected here and
// never read from process-global state.
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultBaseURL,
		http:    httpclient.GetDefaultClient(),
	}
}

// SetBaseURL redirects the client at a different endpoint. Used by tests to
// point at a local server.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

type submitInstance struct {
	Prompt string `json:"prompt"`
}

type submitParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio"`
}

type submitRequest struct {
	Instances  []submitInstance `json:"instances"`
	Parameters submitParameters `json:"parameters"`
}

type operationBody struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI      string `json:"uri"`
					MimeType string `json:"mimeType"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response,omitempty"`
}

// Submit starts a generation job. A rejection by the remote service (tier
// or quota restriction, unknown model) is returned immediately as a
// submission_rejected error without any polling.
func (c *Client) Submit(ctx context.Context, prompt string, cfg GenerateConfig) (*Operation, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, apperrors.New(apperrors.KindRejected, "", err)
	}

	reqBody := submitRequest{
		Instances: []submitInstance{{Prompt: prompt}},
		Parameters: submitParameters{
			SampleCount: cfg.VariantCount,
			AspectRatio: string(cfg.AspectRatio),
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:predictLongRunning", c.baseURL, c.model)
	body, resp, err := c.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return nil, classifyTransport("submit", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, "submit", snippet(body))
	}

	var op operationBody
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, apperrors.Transient(fmt.Errorf("failed to decode operation: %w", err))
	}
	if op.Name == "" {
		return nil, apperrors.Transient(fmt.Errorf("submit returned no operation name"))
	}
	logger.Info("Generation submitted", "model", c.model, "variants", cfg.VariantCount, "aspect", cfg.AspectRatio)
	return decodeOperation(op), nil
}

// Poll performs one status round-trip and returns a refreshed handle. The
// caller owns the wait-then-poll loop; see Await.
func (c *Client) Poll(ctx context.Context, op *Operation) (*Operation, error) {
	if op == nil || op.Name == "" {
		return nil, fmt.Errorf("poll requires a submitted operation")
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(op.Name, "/"))
	body, resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return op, classifyTransport("poll", err)
	}
	if resp.StatusCode != http.StatusOK {
		return op, classifyStatus(resp.StatusCode, "poll", snippet(body))
	}

	var parsed operationBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return op, apperrors.Transient(fmt.Errorf("failed to decode operation: %w", err))
	}
	if parsed.Name == "" {
		parsed.Name = op.Name
	}
	return decodeOperation(parsed), nil
}

// Results extracts the completed operation's video references in the order
// the service returned them.
func (c *Client) Results(op *Operation) ([]VideoRef, error) {
	return Results(op)
}

// Results is the interface-independent extraction used by Client and mocks.
func Results(op *Operation) ([]VideoRef, error) {
	if op == nil || !op.Done {
		return nil, fmt.Errorf("operation is not complete")
	}
	if op.Err != nil {
		return nil, op.Err
	}
	if len(op.Videos) == 0 {
		return nil, apperrors.EmptyResult(fmt.Errorf("operation %s completed with no videos", op.Name))
	}
	return op.Videos, nil
}

// FetchVideo downloads one generated video and returns it ready for inline
// embedding. A non-200 response carries the transport status in the error.
func (c *Client) FetchVideo(ctx context.Context, ref VideoRef) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URI, nil)
	if err != nil {
		return Payload{}, apperrors.Fetch(fmt.Errorf("invalid video uri: %w", err))
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	body, resp, err := httpclient.DoAndRead(c.http, req)
	if err != nil {
		return Payload{}, apperrors.Fetch(fmt.Errorf("video download failed: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return Payload{}, classifyFetch(resp.StatusCode, ref.URI)
	}

	mime := ref.MIMEType
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mime = ct
	}
	logger.Debug("Video downloaded", "bytes", len(body))
	return Payload{MIMEType: mime, Data: body}, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, *http.Response, error) {
	var reqBody *bytes.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return httpclient.DoAndRead(c.http, req)
}

func decodeOperation(body operationBody) *Operation {
	op := &Operation{
		Name: body.Name,
		Done: body.Done,
	}
	if body.Error != nil {
		op.Err = apperrors.Rejected(fmt.Errorf("operation failed remotely: code %d: %s", body.Error.Code, body.Error.Message))
		return op
	}
	if body.Response != nil {
		for _, sample := range body.Response.GenerateVideoResponse.GeneratedSamples {
			if sample.Video.URI == "" {
				continue
			}
			op.Videos = append(op.Videos, VideoRef{
				URI:      sample.Video.URI,
				MIMEType: sample.Video.MimeType,
			})
		}
	}
	return op
}

// Await drives the fixed-interval poll loop until the operation completes.
// There is deliberately no attempt cap: any deadline comes from the
// caller's context.
func Await(ctx context.Context, svc Service, op *Operation, interval time.Duration) (*Operation, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	for !op.Done {
		select {
		case <-ctx.Done():
			return op, ctx.Err()
		case <-timer.C:
		}

		refreshed, err := svc.Poll(ctx, op)
		if err != nil {
			return op, err
		}
		op = refreshed
		timer.Reset(interval)
	}
	return op, nil
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}

package veo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/maraval/veogallery/internal/apperrors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := NewClient("test-key", "veo-test-model")
	c.SetBaseURL(server.URL)
	return c, server
}

func TestSubmit_ReturnsOperation(t *testing.T) {
	var gotPath, gotKey, gotBody string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		fmt.Fprint(w, `{"name":"models/veo-test-model/operations/op-1"}`)
	}))

	op, err := c.Submit(context.Background(), "a cat surfing", GenerateConfig{VariantCount: 2, AspectRatio: AspectWide})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if op.Name != "models/veo-test-model/operations/op-1" || op.Done {
		t.Fatalf("unexpected operation: %+v", op)
	}
	if gotPath != "/models/veo-test-model:predictLongRunning" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header = %q", gotKey)
	}
	if !strings.Contains(gotBody, `"sampleCount":2`) || !strings.Contains(gotBody, `"aspectRatio":"16:9"`) {
		t.Fatalf("request body missing parameters: %s", gotBody)
	}
}

func TestSubmit_StatusClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   apperrors.Kind
	}{
		{400, apperrors.KindRejected},
		{404, apperrors.KindRejected},
		{401, apperrors.KindAuth},
		{403, apperrors.KindAuth},
		{429, apperrors.KindRateLimit},
		{500, apperrors.KindTransient},
		{503, apperrors.KindTransient},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			}))
			_, err := c.Submit(context.Background(), "p", GenerateConfig{VariantCount: 1})
			kind, ok := apperrors.KindOf(err)
			if !ok || kind != tc.kind {
				t.Fatalf("status %d: kind = (%q, %v), want %q", tc.status, kind, ok, tc.kind)
			}
		})
	}
}

func TestSubmit_InvalidAspectRejectedLocally(t *testing.T) {
	contacted := false
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contacted = true
	}))
	_, err := c.Submit(context.Background(), "p", GenerateConfig{VariantCount: 1, AspectRatio: "8:1"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if contacted {
		t.Fatalf("invalid config must not reach the remote service")
	}
}

func TestPoll_ParsesCompletedOperation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/veo-test-model/operations/op-1" {
			t.Errorf("poll path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"name": "models/veo-test-model/operations/op-1",
			"done": true,
			"response": {"generateVideoResponse": {"generatedSamples": [
				{"video": {"uri": "https://files.example/v0", "mimeType": "video/mp4"}},
				{"video": {"uri": "https://files.example/v1"}}
			]}}
		}`)
	}))

	op := &Operation{Name: "models/veo-test-model/operations/op-1"}
	op, err := c.Poll(context.Background(), op)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !op.Done {
		t.Fatalf("expected done operation")
	}
	refs, err := c.Results(op)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(refs) != 2 || refs[0].URI != "https://files.example/v0" || refs[1].URI != "https://files.example/v1" {
		t.Fatalf("results out of order or missing: %+v", refs)
	}
}

func TestPoll_RemoteOperationError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"op","done":true,"error":{"code":8,"message":"quota"}}`)
	}))
	op, err := c.Poll(context.Background(), &Operation{Name: "op"})
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if _, err := c.Results(op); err == nil {
		t.Fatalf("expected remote failure from Results")
	}
}

func TestResults_EmptyAndIncomplete(t *testing.T) {
	if _, err := Results(&Operation{Name: "op"}); err == nil {
		t.Fatalf("incomplete operation must not yield results")
	}

	_, err := Results(&Operation{Name: "op", Done: true})
	kind, ok := apperrors.KindOf(err)
	if !ok || kind != apperrors.KindEmptyResult {
		t.Fatalf("kind = (%q, %v), want empty_result", kind, ok)
	}
}

func TestFetchVideo(t *testing.T) {
	payload := []byte("fake-mp4-bytes")
	c, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/video" {
			if r.Header.Get("x-goog-api-key") != "test-key" {
				t.Errorf("download missing api key header")
			}
			w.Header().Set("Content-Type", "video/mp4")
			w.Write(payload)
			return
		}
		http.Error(w, "gone", http.StatusNotFound)
	}))

	got, err := c.FetchVideo(context.Background(), VideoRef{URI: server.URL + "/video"})
	if err != nil {
		t.Fatalf("FetchVideo: %v", err)
	}
	if string(got.Data) != string(payload) || got.MIMEType != "video/mp4" {
		t.Fatalf("payload = %+v", got)
	}

	_, err = c.FetchVideo(context.Background(), VideoRef{URI: server.URL + "/missing"})
	kind, ok := apperrors.KindOf(err)
	if !ok || kind != apperrors.KindFetch {
		t.Fatalf("kind = (%q, %v), want fetch_failure", kind, ok)
	}
}

func TestAwait_PollsUntilDone(t *testing.T) {
	done := &Operation{Name: "op", Done: true, Videos: []VideoRef{{URI: "u"}}}
	mock := &MockService{
		PollOps: []*Operation{
			{Name: "op"},
			{Name: "op"},
			done,
		},
	}

	op, err := Await(context.Background(), mock, &Operation{Name: "op"}, time.Millisecond)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if !op.Done || mock.PollCalls != 3 {
		t.Fatalf("done=%v polls=%d, want done after 3 polls", op.Done, mock.PollCalls)
	}
}

func TestAwait_ContextCancel(t *testing.T) {
	mock := &MockService{PollOps: []*Operation{{Name: "op"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Await(ctx, mock, &Operation{Name: "op"}, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Await error = %v, want context.Canceled", err)
	}
}

func TestAwait_SurfacesPollError(t *testing.T) {
	pollErr := apperrors.Transient(errors.New("socket reset"))
	mock := &MockService{PollErr: pollErr}
	_, err := Await(context.Background(), mock, &Operation{Name: "op"}, time.Millisecond)
	if !errors.Is(err, pollErr) {
		t.Fatalf("Await error = %v, want poll failure surfaced", err)
	}
}

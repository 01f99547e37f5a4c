package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/maraval/veogallery/internal/apperrors"
	"github.com/maraval/veogallery/internal/favorites"
	"github.com/maraval/veogallery/internal/gemini"
	"github.com/maraval/veogallery/internal/veo"
)

type memBackend struct {
	slots map[string]string
	err   error
}

func (m *memBackend) Get(key string) (string, bool) {
	v, ok := m.slots[key]
	return v, ok
}

func (m *memBackend) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.slots == nil {
		m.slots = map[string]string{}
	}
	m.slots[key] = value
	return nil
}

func testCatalog() []Video {
	return []Video{
		{ID: "cur-1", Title: "Sunset", Description: "Waves at dusk", URL: "https://example.com/1.mp4"},
		{ID: "cur-2", Title: "Dog Park", Description: "A cat sneaks past the dogs", URL: "https://example.com/2.mp4"},
	}
}

func doneOp(uris ...string) *veo.Operation {
	refs := make([]veo.VideoRef, len(uris))
	for i, u := range uris {
		refs[i] = veo.VideoRef{URI: u, MIMEType: "video/mp4"}
	}
	return &veo.Operation{Name: "operations/test", Done: true, Videos: refs}
}

func newTestSession(svc veo.Service, refiner gemini.Refiner) *Session {
	s := NewSession(testCatalog(), favorites.Load(&memBackend{}), svc, refiner, nil)
	s.SetPollInterval(time.Millisecond)
	return s
}

func TestRemixSingleVariant(t *testing.T) {
	svc := &veo.MockService{
		SubmitOp: doneOp("files/v0"),
		Payloads: map[string]veo.Payload{
			"files/v0": {MIMEType: "video/mp4", Data: []byte("clip")},
		},
	}
	s := newTestSession(svc, nil)

	if err := s.StartEdit("cur-1"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if err := s.Remix(context.Background(), "make it snow", veo.GenerateConfig{VariantCount: 1}); err != nil {
		t.Fatalf("Remix: %v", err)
	}

	got := s.Creations()
	if len(got) != 1 {
		t.Fatalf("got %d creations, want 1", len(got))
	}
	if got[0].Title != `Remix of "Sunset"` {
		t.Errorf("title = %q, want %q", got[0].Title, `Remix of "Sunset"`)
	}
	if got[0].Description != "make it snow" {
		t.Errorf("description = %q, want the prompt", got[0].Description)
	}
	if !strings.HasPrefix(got[0].DataURI, "data:video/mp4;base64,") {
		t.Errorf("DataURI = %q, want embedded payload", got[0].DataURI)
	}
	if got[0].ID == "" || got[0].ID == "cur-1" {
		t.Errorf("new entry has bad id %q", got[0].ID)
	}

	if s.Mode() != ModeBrowsing {
		t.Errorf("mode = %v, want browsing", s.Mode())
	}
	if s.Tab() != TabMyVideos {
		t.Errorf("tab = %v, want my videos", s.Tab())
	}
	playing, ok := s.Playing()
	if !ok || playing.ID != got[0].ID {
		t.Errorf("playing = %+v/%v, want the new entry", playing, ok)
	}
	if _, editing := s.Editing(); editing {
		t.Error("edit form still open after success")
	}
}

func TestRemixMultiVariantTitlesAndOrder(t *testing.T) {
	svc := &veo.MockService{
		SubmitOp: doneOp("files/a", "files/b", "files/c"),
		Payloads: map[string]veo.Payload{
			"files/a": {Data: []byte("a")},
			"files/b": {Data: []byte("b")},
			"files/c": {Data: []byte("c")},
		},
	}
	s := newTestSession(svc, nil)

	if err := s.StartEdit("cur-2"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if err := s.Remix(context.Background(), "neon style", veo.GenerateConfig{VariantCount: 3}); err != nil {
		t.Fatalf("Remix: %v", err)
	}

	got := s.Creations()
	if len(got) != 3 {
		t.Fatalf("got %d creations, want 3", len(got))
	}
	for i := range got {
		want := fmt.Sprintf(`Remix of "Dog Park" (%d/3)`, i+1)
		if got[i].Title != want {
			t.Errorf("title[%d] = %q, want %q", i, got[i].Title, want)
		}
	}
	ids := map[string]bool{}
	for _, v := range got {
		if ids[v.ID] {
			t.Fatalf("duplicate id %q in batch", v.ID)
		}
		ids[v.ID] = true
	}

	// Next batch lands in front of the previous one.
	svc.SubmitOp = doneOp("files/d")
	svc.Payloads["files/d"] = veo.Payload{Data: []byte("d")}
	if err := s.StartEdit("cur-1"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if err := s.Remix(context.Background(), "again", veo.GenerateConfig{VariantCount: 1}); err != nil {
		t.Fatalf("second Remix: %v", err)
	}
	got = s.Creations()
	if len(got) != 4 {
		t.Fatalf("got %d creations, want 4", len(got))
	}
	if got[0].Title != `Remix of "Sunset"` {
		t.Errorf("newest batch not first: got[0] = %q", got[0].Title)
	}
	if got[1].Title != `Remix of "Dog Park" (1/3)` {
		t.Errorf("older batch order lost: got[1] = %q", got[1].Title)
	}
}

func TestRemixPollsUntilDone(t *testing.T) {
	pending := &veo.Operation{Name: "operations/slow"}
	svc := &veo.MockService{
		SubmitOp: pending,
		PollOps:  []*veo.Operation{pending, pending, doneOp("files/v0")},
		Payloads: map[string]veo.Payload{"files/v0": {Data: []byte("x")}},
	}
	s := newTestSession(svc, nil)

	if err := s.StartEdit("cur-1"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if err := s.Remix(context.Background(), "slow burn", veo.GenerateConfig{VariantCount: 1}); err != nil {
		t.Fatalf("Remix: %v", err)
	}
	if svc.PollCalls < 3 {
		t.Errorf("PollCalls = %d, want at least 3", svc.PollCalls)
	}
	if len(s.Creations()) != 1 {
		t.Fatalf("got %d creations, want 1", len(s.Creations()))
	}
}

func TestRemixFailureLeavesCollectionsUntouched(t *testing.T) {
	svc := &veo.MockService{
		SubmitErr: apperrors.RateLimit(errors.New("429 from service")),
	}
	s := newTestSession(svc, nil)
	s.ToggleFavorite("cur-1")

	if err := s.StartEdit("cur-1"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	err := s.Remix(context.Background(), "doomed", veo.GenerateConfig{VariantCount: 1})
	if err == nil {
		t.Fatal("Remix succeeded, want error")
	}

	if s.Mode() != ModeBrowsing {
		t.Errorf("mode = %v, want browsing after failure", s.Mode())
	}
	if len(s.Creations()) != 0 {
		t.Errorf("creations mutated on failure: %d entries", len(s.Creations()))
	}
	if !s.IsFavorite("cur-1") {
		t.Error("favorites mutated on failure")
	}
	if _, playing := s.Playing(); playing {
		t.Error("player opened on failure")
	}
	if s.LastError() == nil {
		t.Fatal("LastError() = nil after failure")
	}
	if msg := s.ErrorMessage(); msg != apperrors.PublicMessage(err) {
		t.Errorf("ErrorMessage() = %q, want %q", msg, apperrors.PublicMessage(err))
	}
	s.DismissError()
	if s.LastError() != nil || s.ErrorMessage() != "" {
		t.Error("error survived DismissError")
	}
}

func TestRemixFetchFailureAbortsBatch(t *testing.T) {
	svc := &veo.MockService{
		SubmitOp: doneOp("files/a", "files/b"),
		FetchErr: apperrors.Fetch(errors.New("truncated download")),
	}
	s := newTestSession(svc, nil)

	if err := s.StartEdit("cur-1"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	err := s.Remix(context.Background(), "partial", veo.GenerateConfig{VariantCount: 2})
	if err == nil {
		t.Fatal("Remix succeeded, want fetch error")
	}
	if kind, ok := apperrors.KindOf(err); !ok || kind != apperrors.KindFetch {
		t.Errorf("kind = (%v, %v), want fetch failure", kind, ok)
	}
	if len(s.Creations()) != 0 {
		t.Errorf("partial batch committed: %d entries", len(s.Creations()))
	}
}

func TestRemixSingleFlight(t *testing.T) {
	release := make(chan struct{})
	svc := &blockingService{release: release, entered: make(chan struct{})}
	s := newTestSession(svc, nil)

	if err := s.StartEdit("cur-1"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.Remix(context.Background(), "first", veo.GenerateConfig{VariantCount: 1}); err != nil {
			t.Errorf("first Remix: %v", err)
		}
	}()

	<-svc.entered
	if s.Mode() != ModeSaving {
		t.Errorf("mode = %v, want saving while in flight", s.Mode())
	}
	if err := s.Remix(context.Background(), "second", veo.GenerateConfig{VariantCount: 1}); !errors.Is(err, ErrGenerationInFlight) {
		t.Errorf("concurrent Remix err = %v, want ErrGenerationInFlight", err)
	}
	if err := s.StartEdit("cur-2"); !errors.Is(err, ErrGenerationInFlight) {
		t.Errorf("StartEdit during save err = %v, want ErrGenerationInFlight", err)
	}

	close(release)
	wg.Wait()
	if len(s.Creations()) != 1 {
		t.Fatalf("got %d creations, want 1", len(s.Creations()))
	}
}

// blockingService parks Submit until released so tests can observe the
// in-flight state.
type blockingService struct {
	release <-chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (b *blockingService) Submit(ctx context.Context, _ string, _ veo.GenerateConfig) (*veo.Operation, error) {
	b.once.Do(func() { close(b.entered) })
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return doneOp("files/blocked"), nil
}

func (b *blockingService) Poll(_ context.Context, op *veo.Operation) (*veo.Operation, error) {
	return op, nil
}

func (b *blockingService) Results(op *veo.Operation) ([]veo.VideoRef, error) {
	return veo.Results(op)
}

func (b *blockingService) FetchVideo(_ context.Context, _ veo.VideoRef) (veo.Payload, error) {
	return veo.Payload{Data: []byte("blocked")}, nil
}

func TestRemixRequiresEditing(t *testing.T) {
	s := newTestSession(&veo.MockService{}, nil)
	if err := s.Remix(context.Background(), "nope", veo.GenerateConfig{}); err == nil {
		t.Fatal("Remix outside editing succeeded")
	}
}

func TestRefinerRewritesPrompt(t *testing.T) {
	svc := &veo.MockService{
		SubmitOp: doneOp("files/v0"),
		Payloads: map[string]veo.Payload{"files/v0": {Data: []byte("x")}},
	}
	ref := &gemini.MockRefiner{Refined: "cinematic snow, 35mm"}
	s := newTestSession(svc, ref)

	if err := s.StartEdit("cur-1"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if err := s.Remix(context.Background(), "snow", veo.GenerateConfig{VariantCount: 1}); err != nil {
		t.Fatalf("Remix: %v", err)
	}
	if ref.LastPrompt != "snow" {
		t.Errorf("refiner saw %q, want the raw prompt", ref.LastPrompt)
	}
	if svc.LastPrompt != "cinematic snow, 35mm" {
		t.Errorf("service saw %q, want the refined prompt", svc.LastPrompt)
	}
	if got := s.Creations()[0].Description; got != "cinematic snow, 35mm" {
		t.Errorf("description = %q, want refined prompt", got)
	}
}

func TestRefinerFailureFallsBack(t *testing.T) {
	svc := &veo.MockService{
		SubmitOp: doneOp("files/v0"),
		Payloads: map[string]veo.Payload{"files/v0": {Data: []byte("x")}},
	}
	ref := &gemini.MockRefiner{Err: errors.New("refiner down")}
	s := newTestSession(svc, ref)

	if err := s.StartEdit("cur-1"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if err := s.Remix(context.Background(), "snow", veo.GenerateConfig{VariantCount: 1}); err != nil {
		t.Fatalf("Remix: %v", err)
	}
	if svc.LastPrompt != "snow" {
		t.Errorf("service saw %q, want the original prompt", svc.LastPrompt)
	}
}

func TestStartEditClosesPlayer(t *testing.T) {
	s := newTestSession(&veo.MockService{}, nil)
	s.Play("cur-1")
	if _, ok := s.Playing(); !ok {
		t.Fatal("Play did not open the player")
	}
	if err := s.StartEdit("cur-2"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if _, ok := s.Playing(); ok {
		t.Error("player still open after StartEdit")
	}
	editing, ok := s.Editing()
	if !ok || editing.ID != "cur-2" {
		t.Errorf("editing = %+v/%v, want cur-2", editing, ok)
	}

	s.CancelEdit()
	if s.Mode() != ModeBrowsing {
		t.Errorf("mode = %v after cancel, want browsing", s.Mode())
	}
	if _, ok := s.Editing(); ok {
		t.Error("edit form still open after cancel")
	}
}

func TestPlayIgnoresUnknownID(t *testing.T) {
	s := newTestSession(&veo.MockService{}, nil)
	s.Play("nope")
	if _, ok := s.Playing(); ok {
		t.Error("unknown id opened the player")
	}
}

func TestVisibleTabsAndSearch(t *testing.T) {
	svc := &veo.MockService{
		SubmitOp: doneOp("files/v0"),
		Payloads: map[string]veo.Payload{"files/v0": {Data: []byte("x")}},
	}
	s := newTestSession(svc, nil)

	if got := s.Visible(); len(got) != 2 {
		t.Fatalf("home tab shows %d videos, want 2", len(got))
	}

	s.SetQuery("cat")
	got := s.Visible()
	if len(got) != 1 || got[0].ID != "cur-2" {
		t.Fatalf("query 'cat' returned %+v, want only Dog Park", got)
	}
	s.SetQuery("")

	if err := s.StartEdit("cur-1"); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	if err := s.Remix(context.Background(), "storm", veo.GenerateConfig{VariantCount: 1}); err != nil {
		t.Fatalf("Remix: %v", err)
	}
	newID := s.Creations()[0].ID

	s.SelectTab(TabMyVideos)
	got = s.Visible()
	if len(got) != 1 || got[0].ID != newID {
		t.Fatalf("my videos tab = %+v, want only the creation", got)
	}

	s.SelectTab(TabFavorites)
	if got := s.Visible(); len(got) != 0 {
		t.Fatalf("favorites tab = %+v, want empty", got)
	}
	s.ToggleFavorite("cur-1")
	s.ToggleFavorite(newID)
	got = s.Visible()
	if len(got) != 2 {
		t.Fatalf("favorites tab shows %d videos, want 2", len(got))
	}
	if got[0].ID != newID || got[1].ID != "cur-1" {
		t.Errorf("favorites order = [%s %s], want creation first", got[0].ID, got[1].ID)
	}

	s.SetQuery("waves")
	got = s.Visible()
	if len(got) != 1 || got[0].ID != "cur-1" {
		t.Fatalf("favorites search = %+v, want only Sunset", got)
	}
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	s := newTestSession(&veo.MockService{}, nil)
	if s.IsFavorite("cur-1") {
		t.Fatal("fresh session has favorites")
	}
	if !s.ToggleFavorite("cur-1") {
		t.Fatal("first toggle should add")
	}
	if s.ToggleFavorite("cur-1") {
		t.Fatal("second toggle should remove")
	}
	if s.IsFavorite("cur-1") {
		t.Fatal("toggle pair left membership set")
	}
}

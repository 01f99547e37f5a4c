package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maraval/veogallery/internal/apperrors"
	"github.com/maraval/veogallery/internal/favorites"
	"github.com/maraval/veogallery/internal/gemini"
	"github.com/maraval/veogallery/internal/veo"
)

// Mode is the top-level interaction state of the gallery.
type Mode int

const (
	// ModeBrowsing is the idle state: scrolling tabs, playing clips.
	ModeBrowsing Mode = iota
	// ModeEditing means the remix form is open for one video.
	ModeEditing
	// ModeSaving means a generation request is in flight.
	ModeSaving
)

func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "browsing"
	case ModeEditing:
		return "editing"
	case ModeSaving:
		return "saving"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Tab selects which collection the gallery is listing.
type Tab int

const (
	TabHome Tab = iota
	TabMyVideos
	TabFavorites
)

// ErrGenerationInFlight is returned when a remix is requested while another
// one is still running.
var ErrGenerationInFlight = errors.New("a generation is already in progress")

// Session holds the gallery's view state and drives the remix workflow.
// All mutating methods are safe for concurrent use; Remix blocks for the
// duration of the generation and is meant to run on its own goroutine.
type Session struct {
	mu sync.Mutex

	generator veo.Service
	refiner   gemini.Refiner // optional, nil disables prompt refinement
	favs      *favorites.Store
	log       *slog.Logger

	curated   []Video
	creations []Video

	mode      Mode
	tab       Tab
	query     string
	playingID string
	editingID string
	lastErr   error

	pollInterval time.Duration
	newID        func() string
}

// NewSession builds a session over the curated catalog. favs must be
// non-nil; refiner may be nil.
func NewSession(curated []Video, favs *favorites.Store, generator veo.Service, refiner gemini.Refiner, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		generator:    generator,
		refiner:      refiner,
		favs:         favs,
		log:          log,
		curated:      curated,
		pollInterval: veo.DefaultPollInterval,
		newID:        uuid.NewString,
	}
}

// SetPollInterval overrides the delay between operation polls.
func (s *Session) SetPollInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.pollInterval = d
	}
}

// Mode returns the current interaction state.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Tab returns the selected collection tab.
func (s *Session) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// SelectTab switches the listed collection. The search query and any
// playing video are kept.
func (s *Session) SelectTab(t Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = t
}

// SetQuery updates the search filter.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Query returns the current search filter.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Lookup finds a video by ID across the curated catalog and the user's
// creations.
func (s *Session) Lookup(id string) (Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(id)
}

func (s *Session) lookupLocked(id string) (Video, bool) {
	for _, v := range s.creations {
		if v.ID == id {
			return v, true
		}
	}
	for _, v := range s.curated {
		if v.ID == id {
			return v, true
		}
	}
	return Video{}, false
}

// Creations returns the user's generated videos, newest first.
func (s *Session) Creations() []Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Video, len(s.creations))
	copy(out, s.creations)
	return out
}

// Visible returns the videos the current tab and search query expose, in
// display order.
func (s *Session) Visible() []Video {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pool []Video
	switch s.tab {
	case TabMyVideos:
		pool = s.creations
	case TabFavorites:
		for _, v := range s.creations {
			if s.favs.Contains(v.ID) {
				pool = append(pool, v)
			}
		}
		for _, v := range s.curated {
			if s.favs.Contains(v.ID) {
				pool = append(pool, v)
			}
		}
	default:
		pool = s.curated
	}

	out := make([]Video, 0, len(pool))
	for _, v := range pool {
		if v.Matches(s.query) {
			out = append(out, v)
		}
	}
	return out
}

// Play opens the inline player on the given video. Unknown IDs are ignored.
func (s *Session) Play(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeBrowsing {
		return
	}
	if _, ok := s.lookupLocked(id); ok {
		s.playingID = id
	}
}

// Playing returns the video currently in the player, if any.
func (s *Session) Playing() (Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playingID == "" {
		return Video{}, false
	}
	return s.lookupLocked(s.playingID)
}

// ClosePlayer dismisses the inline player.
func (s *Session) ClosePlayer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playingID = ""
}

// StartEdit opens the remix form for the given video. The inline player is
// closed first so only one overlay is active at a time.
func (s *Session) StartEdit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeSaving {
		return ErrGenerationInFlight
	}
	v, ok := s.lookupLocked(id)
	if !ok {
		return fmt.Errorf("no video with id %q", id)
	}
	s.playingID = ""
	s.editingID = v.ID
	s.mode = ModeEditing
	return nil
}

// Editing returns the video the remix form is open for, if any.
func (s *Session) Editing() (Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID == "" {
		return Video{}, false
	}
	return s.lookupLocked(s.editingID)
}

// CancelEdit closes the remix form without generating anything.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeEditing {
		return
	}
	s.editingID = ""
	s.mode = ModeBrowsing
}

// ToggleFavorite flips membership for a video and returns the new state.
func (s *Session) ToggleFavorite(id string) bool {
	return s.favs.Toggle(id)
}

// IsFavorite reports whether a video is in the favorites set.
func (s *Session) IsFavorite(id string) bool {
	return s.favs.Contains(id)
}

// LastError returns the most recent generation failure, if it has not been
// dismissed.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ErrorMessage returns the user-facing text for the pending error, or "".
func (s *Session) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return ""
	}
	return apperrors.PublicMessage(s.lastErr)
}

// DismissError clears the pending error banner.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// Remix runs the full generation workflow for the video currently being
// edited: refine the prompt when a refiner is configured, submit, poll to
// completion, download every sample, then splice the new entries onto the
// creations list. On success the gallery lands on the My Videos tab with
// the first new entry playing. On failure the session returns to browsing
// with the error retained for display and the collections untouched.
//
// Only one remix may run at a time; concurrent calls fail fast with
// ErrGenerationInFlight.
func (s *Session) Remix(ctx context.Context, prompt string, cfg veo.GenerateConfig) error {
	s.mu.Lock()
	if s.mode == ModeSaving {
		s.mu.Unlock()
		return ErrGenerationInFlight
	}
	if s.mode != ModeEditing || s.editingID == "" {
		s.mu.Unlock()
		return errors.New("no video is being edited")
	}
	source, ok := s.lookupLocked(s.editingID)
	if !ok {
		s.editingID = ""
		s.mode = ModeBrowsing
		s.mu.Unlock()
		return errors.New("edited video no longer exists")
	}
	s.lastErr = nil
	s.mode = ModeSaving
	interval := s.pollInterval
	s.mu.Unlock()

	entries, err := s.generate(ctx, source, prompt, cfg, interval)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeBrowsing
	s.editingID = ""
	if err != nil {
		s.log.Warn("generation failed", "source_id", source.ID, "error", err)
		s.lastErr = err
		return err
	}

	s.creations = append(entries, s.creations...)
	s.tab = TabMyVideos
	s.playingID = entries[0].ID
	s.log.Info("generation complete", "source_id", source.ID, "videos", len(entries))
	return nil
}

func (s *Session) generate(ctx context.Context, source Video, prompt string, cfg veo.GenerateConfig, interval time.Duration) ([]Video, error) {
	finalPrompt := prompt
	if s.refiner != nil {
		refined, err := s.refiner.Refine(ctx, prompt)
		if err != nil {
			s.log.Warn("prompt refinement failed, using original", "error", err)
		} else if refined != "" {
			finalPrompt = refined
		}
	}

	op, err := s.generator.Submit(ctx, finalPrompt, cfg)
	if err != nil {
		return nil, err
	}
	op, err = veo.Await(ctx, s.generator, op, interval)
	if err != nil {
		return nil, err
	}
	refs, err := s.generator.Results(op)
	if err != nil {
		return nil, err
	}

	payloads, err := s.fetchAll(ctx, refs)
	if err != nil {
		return nil, err
	}

	n := len(payloads)
	entries := make([]Video, n)
	for i, p := range payloads {
		title := fmt.Sprintf("Remix of %q", source.Title)
		if n > 1 {
			title = fmt.Sprintf("Remix of %q (%d/%d)", source.Title, i+1, n)
		}
		entries[i] = Video{
			ID:          s.newID(),
			Title:       title,
			Description: finalPrompt,
			DataURI:     p.DataURI(),
		}
	}
	return entries, nil
}

// fetchAll downloads every generated sample concurrently while keeping the
// service's ordering. Any single failure aborts the whole batch.
func (s *Session) fetchAll(ctx context.Context, refs []veo.VideoRef) ([]veo.Payload, error) {
	payloads := make([]veo.Payload, len(refs))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref veo.VideoRef) {
			defer wg.Done()
			p, err := s.generator.FetchVideo(ctx, ref)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			payloads[i] = p
		}(i, ref)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return payloads, nil
}

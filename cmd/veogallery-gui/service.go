package main

import (
	"context"
	"errors"
	"sync"

	"github.com/maraval/veogallery/internal/apperrors"
	"github.com/maraval/veogallery/internal/gemini"
	"github.com/maraval/veogallery/internal/veo"
)

// remoteService hands the gallery session a stable veo.Service while the
// API key and model stay changeable from the settings window.
type remoteService struct {
	mu     sync.Mutex
	client *veo.Client
}

func (s *remoteService) configure(apiKey, model string) {
	s.mu.Lock()
	s.client = veo.NewClient(apiKey, model)
	s.mu.Unlock()
}

func (s *remoteService) current() (*veo.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil, apperrors.Auth(errors.New("no API key configured"))
	}
	return s.client, nil
}

func (s *remoteService) Submit(ctx context.Context, prompt string, cfg veo.GenerateConfig) (*veo.Operation, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, prompt, cfg)
}

func (s *remoteService) Poll(ctx context.Context, op *veo.Operation) (*veo.Operation, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return c.Poll(ctx, op)
}

func (s *remoteService) Results(op *veo.Operation) ([]veo.VideoRef, error) {
	return veo.Results(op)
}

func (s *remoteService) FetchVideo(ctx context.Context, ref veo.VideoRef) (veo.Payload, error) {
	c, err := s.current()
	if err != nil {
		return veo.Payload{}, err
	}
	return c.FetchVideo(ctx, ref)
}

var _ veo.Service = (*remoteService)(nil)

// guiRefiner is a gemini.Refiner that can be toggled from settings. When
// disabled it passes the prompt through untouched.
type guiRefiner struct {
	mu      sync.Mutex
	enabled bool
	apiKey  string
	model   string
}

func (r *guiRefiner) configure(enabled bool, apiKey, model string) {
	r.mu.Lock()
	r.enabled = enabled
	r.apiKey = apiKey
	r.model = model
	r.mu.Unlock()
}

func (r *guiRefiner) Refine(ctx context.Context, prompt string) (string, error) {
	r.mu.Lock()
	enabled, apiKey, model := r.enabled, r.apiKey, r.model
	r.mu.Unlock()

	if !enabled || apiKey == "" {
		return prompt, nil
	}
	client, err := gemini.NewClient(ctx, apiKey, model)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()
	return client.Refine(ctx, prompt)
}

var _ gemini.Refiner = (*guiRefiner)(nil)

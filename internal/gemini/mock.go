package gemini

import "context"

// MockRefiner for testing
type MockRefiner struct {
	Refined    string
	Err        error
	LastPrompt string
}

func (m *MockRefiner) Refine(_ context.Context, prompt string) (string, error) {
	m.LastPrompt = prompt
	return m.Refined, m.Err
}

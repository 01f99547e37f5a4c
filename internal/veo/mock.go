package veo

import "context"

// MockService for testing the gallery workflow without a network.
type MockService struct {
	SubmitOp  *Operation
	SubmitErr error

	// PollOps is consumed one handle per Poll call; the last entry repeats.
	PollOps []*Operation
	PollErr error

	// Payloads is keyed by VideoRef.URI.
	Payloads map[string]Payload
	FetchErr error

	LastPrompt string
	LastConfig GenerateConfig
	PollCalls  int
	FetchCalls int
}

var _ Service = (*MockService)(nil)

func (m *MockService) Submit(_ context.Context, prompt string, cfg GenerateConfig) (*Operation, error) {
	m.LastPrompt = prompt
	m.LastConfig = cfg
	return m.SubmitOp, m.SubmitErr
}

func (m *MockService) Poll(_ context.Context, op *Operation) (*Operation, error) {
	m.PollCalls++
	if m.PollErr != nil {
		return op, m.PollErr
	}
	if len(m.PollOps) == 0 {
		return op, nil
	}
	next := m.PollOps[0]
	if len(m.PollOps) > 1 {
		m.PollOps = m.PollOps[1:]
	}
	return next, nil
}

func (m *MockService) Results(op *Operation) ([]VideoRef, error) {
	return Results(op)
}

func (m *MockService) FetchVideo(_ context.Context, ref VideoRef) (Payload, error) {
	m.FetchCalls++
	if m.FetchErr != nil {
		return Payload{}, m.FetchErr
	}
	return m.Payloads[ref.URI], nil
}

package testutils

import (
	"context"
	"fmt"
	"strings"
)

// MockCompleter is a test completer that returns canned responses
type MockCompleter struct {
	// Response is returned for every prompt unless Responses has a match
	Response string

	// Responses maps a prompt substring to its canned response
	Responses map[string]string

	// FailOn causes Complete to return an error when the prompt contains it
	FailOn string

	// Prompts records every prompt passed to Complete
	Prompts []string
}

func NewMockCompleter(response string) *MockCompleter {
	return &MockCompleter{
		Response:  response,
		Responses: make(map[string]string),
	}
}

func (m *MockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)

	if m.FailOn != "" && strings.Contains(prompt, m.FailOn) {
		return "", fmt.Errorf("mock completion failure for: %s", m.FailOn)
	}

	for substr, response := range m.Responses {
		if strings.Contains(prompt, substr) {
			return response, nil
		}
	}

	return m.Response, nil
}

func (m *MockCompleter) Close() error {
	return nil
}

package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/replycal/replycal/internal/claude"
)

// MockModel simulates the extraction model for testing. It answers every
// completion with a scripted reply and records the requests it receives.
type MockModel struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []claude.ExtractionRequest
}

// NewMockModel creates a mock model that answers with a sample extraction
func NewMockModel() *MockModel {
	return &MockModel{reply: SampleExtraction}
}

// SetReply sets the raw reply the model returns
func (m *MockModel) SetReply(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = reply
	m.err = nil
}

// SetError makes every completion fail with err
func (m *MockModel) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Complete records the request and returns the scripted reply
func (m *MockModel) Complete(_ context.Context, req claude.ExtractionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

// IsConfigured reports the mock model as always configured
func (m *MockModel) IsConfigured() bool {
	return true
}

// Requests returns all requests the model has seen
func (m *MockModel) Requests() []claude.ExtractionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]claude.ExtractionRequest{}, m.requests...)
}

// RawSend is one message captured by the mock mailer
type RawSend struct {
	ThreadID string
	Raw      []byte
}

// MockMailer captures raw MIME sends instead of calling the Gmail API
type MockMailer struct {
	mu    sync.Mutex
	sends []RawSend
	err   error
}

// NewMockMailer creates a mock mail transport
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SetError makes every send fail with err
func (m *MockMailer) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SendRaw records the message and returns a synthetic message ID
func (m *MockMailer) SendRaw(threadID string, raw []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sends = append(m.sends, RawSend{ThreadID: threadID, Raw: raw})
	return fmt.Sprintf("sent-%d", len(m.sends)), nil
}

// Sends returns all captured sends
func (m *MockMailer) Sends() []RawSend {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RawSend{}, m.sends...)
}

package testkit

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/shashikala/pkg/mail"
)

// MockMailer is a testify-backed mail.Mailer. Expectations are checked in the
// order they were added, so register one-off failures before AcceptAll:
//
//	m := testkit.NewMockMailer()
//	m.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
//	m.AcceptAll()
type MockMailer struct {
	mock.Mock

	mu   sync.Mutex
	sent []mail.Message
}

func NewMockMailer() *MockMailer { return &MockMailer{} }

// AcceptAll lets every remaining Send succeed.
func (m *MockMailer) AcceptAll() *MockMailer {
	m.On("Send", mock.Anything, mock.Anything).Return(nil)
	return m
}

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	if err := m.Called(ctx, msg).Error(0); err != nil {
		return err
	}
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

// Sent returns the messages accepted so far.
func (m *MockMailer) Sent() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

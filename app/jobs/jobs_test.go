package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shashikala/pkg/testkit"
)

func TestDonationReceiptRenders(t *testing.T) {
	mailer := testkit.NewMockMailer().AcceptAll()
	job := &DonationReceipt{DonationID: 3, DonorName: "Asha", Email: "a@x.y", Amount: 12.5, Message: "Keep going", mailer: mailer}

	require.NoError(t, job.Handle(context.Background()))
	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Thank you for your donation (receipt #3)", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "12.50")
	assert.Contains(t, sent[0].HTML, "Keep going")
}

func TestMailerFailureIsRetryable(t *testing.T) {
	mailer := testkit.NewMockMailer()
	mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	mailer.AcceptAll()
	job := &ContactNotification{To: "admin@x.y", SenderName: "R", Email: "r@x.y", Message: "hi", mailer: mailer}

	assert.Error(t, job.Handle(context.Background()))
	assert.NoError(t, job.Handle(context.Background()))
	mailer.AssertNumberOfCalls(t, "Send", 2)
}

func TestJobWithoutMailerFails(t *testing.T) {
	assert.Error(t, (&DonationReceipt{Email: "a@x.y"}).Handle(context.Background()))
	assert.Error(t, (&ContactNotification{To: "a@x.y"}).Handle(context.Background()))
}

package listeners

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shashikala/app/events"
	"github.com/shashiranjanraj/shashikala/app/jobs"
	"github.com/shashiranjanraj/shashikala/app/models"
	"github.com/shashiranjanraj/shashikala/pkg/event"
	"github.com/shashiranjanraj/shashikala/pkg/metrics"
	"github.com/shashiranjanraj/shashikala/pkg/queue"
	"github.com/shashiranjanraj/shashikala/pkg/testkit"
)

type feed struct {
	mu     sync.Mutex
	frames []any
}

func (f *feed) Broadcast(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, v)
	return nil
}

func setup(t *testing.T, admin string) (*event.Dispatcher, *feed, *testkit.MockMailer) {
	t.Helper()
	mailer := testkit.NewMockMailer().AcceptAll()
	q := queue.NewManager(queue.NewMemoryDriver())
	jobs.Register(q, mailer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		q.Work(ctx, 1)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	d := event.NewDispatcher(nil)
	f := &feed{}
	Register(d, Deps{Queue: q, Feed: f, AdminEmail: admin})
	return d, f, mailer
}

func TestDonationRecorded(t *testing.T) {
	d, f, mailer := setup(t, "")
	before := testutil.ToFloat64(metrics.DonationsTotal)

	email := "asha@example.com"
	d.Dispatch(context.Background(), events.DonationRecorded, models.Donation{ID: 7, Name: "Asha", Amount: 50, Email: &email})

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DonationsTotal))
	require.Len(t, f.frames, 1)
	raw, err := json.Marshal(f.frames[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"donation","id":7,"name":"Asha","amount":50}`, string(raw))

	require.Eventually(t, func() bool { return len(mailer.Sent()) == 1 }, 2*time.Second, 10*time.Millisecond)
	msg := mailer.Sent()[0]
	assert.Equal(t, []string{email}, msg.To)
	assert.Contains(t, msg.Subject, "#7")
	assert.Contains(t, msg.HTML, "Dear Asha")
	assert.Contains(t, msg.HTML, "50.00")
}

func TestDonationWithoutEmailSendsNoReceipt(t *testing.T) {
	d, f, mailer := setup(t, "")
	d.Dispatch(context.Background(), events.DonationRecorded, models.Donation{ID: 8, Name: "Anon", Amount: 5})

	assert.Len(t, f.frames, 1)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, mailer.Sent())
}

func TestContactNotification(t *testing.T) {
	d, _, mailer := setup(t, "admin@shashikala.art")
	d.Dispatch(context.Background(), events.ContactReceived, models.Contact{ID: 1, Name: "Ravi", Email: "ravi@example.com", Message: "Hello <there>"})

	require.Eventually(t, func() bool { return len(mailer.Sent()) == 1 }, 2*time.Second, 10*time.Millisecond)
	msg := mailer.Sent()[0]
	assert.Equal(t, []string{"admin@shashikala.art"}, msg.To)
	assert.Equal(t, "ravi@example.com", msg.ReplyTo)
	assert.Contains(t, msg.HTML, "Hello &lt;there&gt;")
}

func TestCounters(t *testing.T) {
	d, _, _ := setup(t, "")
	carts := testutil.ToFloat64(metrics.CartItemsAdded)
	regs := testutil.ToFloat64(metrics.RegistrationsTotal)

	d.Dispatch(context.Background(), events.CartItemAdded, models.CartItem{ID: 1})
	d.Dispatch(context.Background(), events.RegistrationCreated, models.Registration{ID: 1})

	assert.Equal(t, carts+1, testutil.ToFloat64(metrics.CartItemsAdded))
	assert.Equal(t, regs+1, testutil.ToFloat64(metrics.RegistrationsTotal))
}

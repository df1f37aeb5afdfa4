package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/georgemunganga/dalin-backend/internal/modules/notify"
	"github.com/georgemunganga/dalin-backend/internal/modules/profile"
	"github.com/google/uuid"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct{ to, subject, body string }

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type stubRecipients map[uuid.UUID]*profile.Profile

func (s stubRecipients) GetProfileByID(_ context.Context, id string) (*profile.Profile, error) {
	p, ok := s[uuid.MustParse(id)]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "profile not found")
	}
	return p, nil
}

// fakeReader serves queued messages, then blocks until ctx is cancelled.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafkaGo.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkaGo.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafkaGo.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func changeMessage(t *testing.T, offset int64, c notify.Change) kafkaGo.Message {
	t.Helper()
	value, err := json.Marshal(c)
	require.NoError(t, err)
	return kafkaGo.Message{Offset: offset, Key: []byte(c.OrderID.String()), Value: value}
}

func TestRender(t *testing.T) {
	c := notify.Change{
		OrderID:      uuid.MustParse("5f1c2a9e-0000-4000-8000-000000000001"),
		NewStatus:    "arrived_at_hub",
		TrackingNote: "Erbil branch, shelf 4",
	}
	subject, body := render(c, "Aram", "https://dalin.example/my-orders")

	assert.Equal(t, "Update on order 5f1c2a9e", subject)
	assert.Contains(t, body, "Hello Aram,")
	assert.Contains(t, body, "New status: Arrived at our local branch")
	assert.Contains(t, body, "Tracking note: Erbil branch, shelf 4")
	assert.Contains(t, body, "https://dalin.example/my-orders")

	c.TrackingNote = ""
	c.NewStatus = "mystery"
	_, body = render(c, "Aram", "")
	assert.NotContains(t, body, "Tracking note")
	assert.Contains(t, body, "New status: mystery")
}

func TestConsume(t *testing.T) {
	customer := uuid.New()
	mailer := &recordingMailer{}
	h := &statusHandler{
		recipients: stubRecipients{customer: {ID: customer, Email: "aram@example.com"}},
		mailer:     mailer,
		log:        zap.NewNop(),
	}

	reader := &fakeReader{queue: []kafkaGo.Message{
		changeMessage(t, 1, notify.Change{OrderID: uuid.New(), CustomerID: customer, OldStatus: "pending", NewStatus: "approved"}),
		{Offset: 2, Value: []byte("not json")},
		changeMessage(t, 3, notify.Change{OrderID: uuid.New(), CustomerID: uuid.New(), NewStatus: "approved"}),
		changeMessage(t, 4, notify.Change{OrderID: uuid.New(), CustomerID: customer, OldStatus: "approved", NewStatus: "delivered"}),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		consume(ctx, reader, h.Handle, zap.NewNop())
		close(done)
	}()

	require.Eventually(t, func() bool {
		reader.mu.Lock()
		defer reader.mu.Unlock()
		return len(reader.committed) == 4
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []int64{1, 2, 3, 4}, reader.committed)
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "aram@example.com", mailer.sent[0].to)
	assert.Contains(t, mailer.sent[1].body, "New status: Delivered")
	assert.Contains(t, mailer.sent[0].body, "Hello aram@example.com,")
}

func TestHandle_Errors(t *testing.T) {
	h := &statusHandler{recipients: stubRecipients{}, mailer: &recordingMailer{}, log: zap.NewNop()}

	err := h.Handle(context.Background(), kafkaGo.Message{Value: []byte("{")})
	assert.ErrorContains(t, err, "decode status change")

	err = h.Handle(context.Background(), changeMessage(t, 0, notify.Change{OrderID: uuid.New(), CustomerID: uuid.New()}))
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

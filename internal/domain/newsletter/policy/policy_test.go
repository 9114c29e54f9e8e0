package policy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athena-eo/observatory/internal/domain/newsletter/entity"
)

type stubService struct {
	err error
}

func (s stubService) Subscribe(ctx context.Context, email string) (*entity.Subscriber, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Subscriber{ID: "sub-1", Email: email, Active: true}, nil
}

func (s stubService) Unsubscribe(ctx context.Context, email string) error {
	return s.err
}

func (s stubService) List(ctx context.Context, activeOnly bool) ([]entity.Subscriber, error) {
	return []entity.Subscriber{{Email: "ada@example.org", Active: true}}, s.err
}

func (s stubService) Send(ctx context.Context, c entity.Campaign) (*entity.Delivery, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Delivery{Recipients: 3}, nil
}

func newTestPolicy(svc NewsletterService) (*Policy, *bytes.Buffer) {
	var logs bytes.Buffer
	return New(svc, slog.New(slog.NewTextHandler(&logs, nil))), &logs
}

func TestSubscribeLogsDomainOnly(t *testing.T) {
	p, logs := newTestPolicy(stubService{})

	sub, err := p.Subscribe(context.Background(), "Chidi.Okeke@Observers.NG")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub.ID)

	assert.Contains(t, logs.String(), "domain=observers.ng")
	assert.NotContains(t, logs.String(), "Chidi")
	assert.NotContains(t, logs.String(), "chidi")
}

func TestFailuresLogDomainOnly(t *testing.T) {
	echoed := fmt.Errorf("subscribing: backend API error: chidi@observers.ng is blocked (status: 422)")
	p, logs := newTestPolicy(stubService{err: echoed})
	ctx := context.Background()

	_, err := p.Subscribe(ctx, "chidi@observers.ng")
	require.ErrorIs(t, err, echoed)

	err = p.Unsubscribe(ctx, "chidi@observers.ng")
	require.Error(t, err)

	out := logs.String()
	assert.Contains(t, out, "op=subscribe")
	assert.Contains(t, out, "op=unsubscribe")
	assert.Contains(t, out, "domain=observers.ng")
	assert.Contains(t, out, "<address>")
	assert.NotContains(t, out, "chidi")
}

func TestInvalidAddressIsNotLogged(t *testing.T) {
	p, logs := newTestPolicy(stubService{err: entity.ErrInvalidEmail})

	_, err := p.Subscribe(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, entity.ErrInvalidEmail)
	assert.Empty(t, logs.String())
}

func TestSend(t *testing.T) {
	p, logs := newTestPolicy(stubService{})

	d, err := p.Send(context.Background(), entity.Campaign{Subject: "Edo results", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, 3, d.Recipients)
	assert.Contains(t, logs.String(), "recipients=3")

	p, logs = newTestPolicy(stubService{err: errors.New("mailer down")})
	_, err = p.Send(context.Background(), entity.Campaign{Subject: "Edo results"})
	assert.Error(t, err)
	assert.Contains(t, logs.String(), "newsletter send failed")
}

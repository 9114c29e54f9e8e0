package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athena-eo/observatory/internal/domain/newsletter/entity"
)

type memoryRepo struct {
	subs map[string]*entity.Subscriber
}

func (m *memoryRepo) Subscribe(ctx context.Context, email string) (*entity.Subscriber, error) {
	if s, ok := m.subs[email]; ok {
		s.Active = true
		return s, nil
	}
	s := &entity.Subscriber{ID: email, Email: email, Active: true}
	m.subs[email] = s
	return s, nil
}

func (m *memoryRepo) Unsubscribe(ctx context.Context, email string) error {
	if s, ok := m.subs[email]; ok {
		s.Active = false
	}
	return nil
}

func (m *memoryRepo) List(ctx context.Context, activeOnly bool) ([]entity.Subscriber, error) {
	var out []entity.Subscriber
	for _, s := range m.subs {
		if !activeOnly || s.Active {
			out = append(out, *s)
		}
	}
	return out, nil
}

type countingMailer struct {
	repo *memoryRepo
	err  error
	sent []entity.Campaign
}

func (c *countingMailer) Send(ctx context.Context, campaign entity.Campaign) (*entity.Delivery, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.sent = append(c.sent, campaign)
	active, _ := c.repo.List(ctx, true)
	return &entity.Delivery{Recipients: len(active)}, nil
}

func newTestService() (*Service, *memoryRepo, *countingMailer) {
	repo := &memoryRepo{subs: map[string]*entity.Subscriber{}}
	mailer := &countingMailer{repo: repo}
	return New(repo, mailer), repo, mailer
}

func TestSubscribeNormalizesAndIsIdempotent(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Subscribe(ctx, "  Reader@Example.ORG ")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.org", first.Email)

	second, err := svc.Subscribe(ctx, "reader@example.org")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.subs, 1)
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	svc, repo, _ := newTestService()

	for _, email := range []string{"", "reader", "reader@", "@example.org", "Ada <ada@example.org>", "a b@example.org", "reader@localhost"} {
		_, err := svc.Subscribe(context.Background(), email)
		assert.ErrorIs(t, err, entity.ErrInvalidEmail, email)
	}
	assert.Empty(t, repo.subs)
}

func TestUnsubscribeAndList(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, e := range []string{"a@example.org", "b@example.org"} {
		_, err := svc.Subscribe(ctx, e)
		require.NoError(t, err)
	}
	require.NoError(t, svc.Unsubscribe(ctx, "A@example.org"))
	require.NoError(t, svc.Unsubscribe(ctx, "nobody@example.org"))

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "b@example.org", active[0].Email)
}

func TestSendReturnsRecipientCount(t *testing.T) {
	svc, _, mailer := newTestService()
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "a@example.org")
	require.NoError(t, err)

	d, err := svc.Send(ctx, entity.Campaign{Subject: " Edo results ", HTML: "<p>Final figures</p>"})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Recipients)
	assert.Equal(t, "Edo results", mailer.sent[0].Subject)

	_, err = svc.Send(ctx, entity.Campaign{Subject: "x"})
	assert.ErrorIs(t, err, entity.ErrEmptyBody)
	_, err = svc.Send(ctx, entity.Campaign{HTML: "x"})
	assert.ErrorIs(t, err, entity.ErrEmptySubject)

	mailer.err = errors.New("smtp relay down")
	_, err = svc.Send(ctx, entity.Campaign{Subject: "s", HTML: "b"})
	assert.ErrorIs(t, err, mailer.err)
}

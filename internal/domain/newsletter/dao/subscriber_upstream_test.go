package dao

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athena-eo/observatory/internal/domain/newsletter/entity"
	"github.com/athena-eo/observatory/internal/httpx/upstream/backend"
)

func TestSubscriberUpstream(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /newsletter/subscribe", func(w http.ResponseWriter, r *http.Request) {
		var req emailRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email == "existing@example.org" {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":"already subscribed"}`))
			return
		}
		json.NewEncoder(w).Encode(entity.Subscriber{ID: "s1", Email: req.Email, Active: true})
	})
	mux.HandleFunc("POST /newsletter/unsubscribe", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("GET /newsletter/subscribers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		json.NewEncoder(w).Encode([]entity.Subscriber{{ID: "s1", Email: "new@example.org", Active: true}})
	})
	mux.HandleFunc("POST /newsletter/send", func(w http.ResponseWriter, r *http.Request) {
		var c entity.Campaign
		require.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		assert.Equal(t, "Weekly", c.Subject)
		w.Write([]byte(`{"recipients":42}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	repo := NewSubscriberUpstream(backend.New(backend.WithBaseURL(srv.URL)))
	ctx := context.Background()

	sub, err := repo.Subscribe(ctx, "new@example.org")
	require.NoError(t, err)
	assert.Equal(t, "s1", sub.ID)

	sub, err = repo.Subscribe(ctx, "existing@example.org")
	require.NoError(t, err, "conflict means already subscribed")
	assert.True(t, sub.Active)

	require.NoError(t, repo.Unsubscribe(ctx, "ghost@example.org"))

	subs, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	d, err := repo.Send(ctx, entity.Campaign{Subject: "Weekly", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, 42, d.Recipients)
}

package rooms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ciscospark/internal/client"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api, err := client.New(client.Options{BaseURL: server.URL + "/v1"}, nil)
	require.NoError(t, err)
	return New(api, nil)
}

func TestCreate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/rooms", r.URL.Path)

		var req CreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(Room{ID: "room-1", Title: req.Title, Type: "group"})
	})

	room, err := svc.Create(context.Background(), CreateRequest{Title: "Webhook Test Room"})
	require.NoError(t, err)
	assert.Equal(t, "room-1", room.ID)
	assert.Equal(t, "Webhook Test Room", room.Title)
	assert.Equal(t, "group", room.Type)
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})

	_, err := svc.Create(context.Background(), CreateRequest{})
	assert.Error(t, err)
}

func TestListQuery(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("max"))
		assert.Equal(t, "direct", r.URL.Query().Get("type"))
		w.Write([]byte(`{"items": [{"id": "room-1", "type": "direct"}, {"id": "room-2", "type": "direct"}]}`))
	})

	page, err := svc.List(context.Background(), ListOptions{Max: 5, Type: "direct"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "room-2", page.Items[1].ID)
	assert.False(t, page.HasNext())
}

func TestGetAndRemove(t *testing.T) {
	var removed atomic.Bool
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			removed.Store(true)
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			if removed.Load() {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"id": "room-1", "title": "Room"}`))
		}
	})
	ctx := context.Background()

	room, err := svc.Get(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, "Room", room.Title)

	require.NoError(t, svc.Remove(ctx, "room-1"))

	_, err = svc.Get(ctx, "room-1")
	assert.ErrorIs(t, err, client.ErrNotFound)

	assert.ErrorIs(t, svc.Remove(ctx, ""), ErrMissingID)
}

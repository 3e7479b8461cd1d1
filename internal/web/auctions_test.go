package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mercadolance/lanceweb/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckEndTime(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"datetime-local value", "2024-01-01T10:00", true},
		{"too short", "2024-01-01T10:0", false},
		{"too long", "2024-01-01T10:00:00", false},
		{"no colon", "2024-01-01T1000~", false},
		{"right shape, not a date", "9999-99-99T99:99", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkEndTime(tt.value)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrEndTimeFormat)
			}
		})
	}
}

func TestLegalTransition(t *testing.T) {
	tests := []struct {
		from, to api.AuctionStatus
		want     bool
	}{
		{api.StatusActive, api.StatusActive, true},
		{api.StatusActive, api.StatusCancelled, true},
		{api.StatusActive, api.StatusFinished, false},
		{api.StatusFinished, api.StatusCancelled, false},
		{api.StatusCancelled, api.StatusActive, false},
		{api.StatusCancelled, api.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s to %s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, legalTransition(tt.from, tt.to))
		})
	}
}

// ownerBackend fakes the backend for the owner-management flows.
type ownerBackend struct {
	status  api.AuctionStatus
	updated *api.UpdateAuctionRequest
	deleted bool
	created *api.CreateAuctionRequest
}

func (b *ownerBackend) server(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/auctions/5":
			fmt.Fprintf(w, `{"id":5,"title":"Clock","description":"d","startingPrice":50,
				"status":%q,"product":{"id":1,"name":"Clock"},
				"endTime":%q,"highestBidAmount":100}`,
				b.status, time.Now().Add(time.Hour).Format(time.RFC3339))
		case r.Method == http.MethodGet && r.URL.Path == "/auctions/search":
			fmt.Fprintf(w, `{"content":[{"id":5,"title":"Clock","description":"d","status":%q,
				"endTime":%q}],"number":0,"totalPages":1}`,
				b.status, time.Now().Add(time.Hour).Format(time.RFC3339))
		case r.Method == http.MethodPut && r.URL.Path == "/auctions/5":
			b.updated = &api.UpdateAuctionRequest{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(b.updated))
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodDelete && r.URL.Path == "/auctions/5":
			b.deleted = true
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet && r.URL.Path == "/products":
			w.Write([]byte(`[{"id":1,"name":"Clock"},{"id":2,"name":"Vase"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/products":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":3,"name":"Lamp"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/auctions":
			b.created = &api.CreateAuctionRequest{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(b.created))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":42}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func ownerRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/my-auctions", h.MyAuctions)
	r.Post("/my-auctions/{auctionID}", h.UpdateAuction)
	r.Post("/my-auctions/{auctionID}/delete", h.DeleteAuction)
	r.Get("/create-auction", h.CreateAuctionForm)
	r.Post("/create-auction", h.CreateAuction)
	return r
}

func TestCreateAuctionEndTimeCheck(t *testing.T) {
	backend := &ownerBackend{status: api.StatusActive}
	h, _ := newTestHandler(t, backend.server(t))
	router := ownerRouter(h)

	form := url.Values{
		"title":         {"Vase auction"},
		"description":   {"old vase"},
		"startingPrice": {"25"},
		"productId":     {"2"},
		"endTime":       {"2024-01-01T10:00:00"}, // 19 chars, rejected
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest(t, "/create-auction", form, resolvedSession()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ErrEndTimeFormat.Error())
	assert.Nil(t, backend.created)
}

func TestCreateAuctionSuffixesSeconds(t *testing.T) {
	backend := &ownerBackend{status: api.StatusActive}
	h, _ := newTestHandler(t, backend.server(t))
	router := ownerRouter(h)

	form := url.Values{
		"title":         {"Vase auction"},
		"description":   {"old vase"},
		"startingPrice": {"25"},
		"productId":     {"2"},
		"endTime":       {"2026-01-01T10:00"},
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest(t, "/create-auction", form, resolvedSession()))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auction/42", w.Header().Get("Location"))
	require.NotNil(t, backend.created)
	assert.Equal(t, "2026-01-01T10:00:00", backend.created.EndTime)
	assert.Equal(t, int64(9), backend.created.CreatorID)
	assert.Equal(t, int64(2), backend.created.ProductID)
}

func TestCreateAuctionInlineProduct(t *testing.T) {
	backend := &ownerBackend{status: api.StatusActive}
	h, _ := newTestHandler(t, backend.server(t))
	router := ownerRouter(h)

	form := url.Values{
		"title":         {"Lamp auction"},
		"description":   {"brass lamp"},
		"startingPrice": {"40"},
		"newProduct":    {"Lamp"},
		"endTime":       {"2026-01-01T10:00"},
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest(t, "/create-auction", form, resolvedSession()))

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.NotNil(t, backend.created)
	assert.Equal(t, int64(3), backend.created.ProductID, "inline product id must be used")
}

func TestCreateAuctionRequiresResolvedUser(t *testing.T) {
	backend := &ownerBackend{status: api.StatusActive}
	h, _ := newTestHandler(t, backend.server(t))
	router := ownerRouter(h)

	sess := resolvedSession()
	sess.UserID = 0
	form := url.Values{
		"title":         {"t"},
		"description":   {"d"},
		"startingPrice": {"1"},
		"productId":     {"2"},
		"endTime":       {"2026-01-01T10:00"},
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest(t, "/create-auction", form, sess))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ErrUserNotResolved.Error())
	assert.Nil(t, backend.created)
}

func TestUpdateAuctionActiveToCancelled(t *testing.T) {
	backend := &ownerBackend{status: api.StatusActive}
	h, _ := newTestHandler(t, backend.server(t))
	router := ownerRouter(h)

	form := url.Values{
		"description": {"updated description"},
		"endTime":     {"2026-02-01T12:00"},
		"status":      {"CANCELLED"},
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest(t, "/my-auctions/5", form, resolvedSession()))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/my-auctions", w.Header().Get("Location"))
	require.NotNil(t, backend.updated)
	assert.Equal(t, api.StatusCancelled, backend.updated.Status)
	assert.Equal(t, "updated description", backend.updated.Description)
	assert.NotEmpty(t, backend.updated.EndTime)
}

func TestUpdateAuctionRejectsFinished(t *testing.T) {
	backend := &ownerBackend{status: api.StatusFinished}
	h, _ := newTestHandler(t, backend.server(t))
	router := ownerRouter(h)

	form := url.Values{
		"description": {"x"},
		"endTime":     {"2026-02-01T12:00"},
		"status":      {"CANCELLED"},
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest(t, "/my-auctions/5", form, resolvedSession()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ErrNotEditable.Error())
	assert.Nil(t, backend.updated)
}

func TestUpdateAuctionRejectsIllegalTarget(t *testing.T) {
	backend := &ownerBackend{status: api.StatusActive}
	h, _ := newTestHandler(t, backend.server(t))
	router := ownerRouter(h)

	form := url.Values{
		"description": {"x"},
		"endTime":     {"2026-02-01T12:00"},
		"status":      {"FINISHED"},
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest(t, "/my-auctions/5", form, resolvedSession()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ErrStatusTransition.Error())
	assert.Nil(t, backend.updated)
}

func TestDeleteAuctionRules(t *testing.T) {
	t.Run("cancelled and confirmed is deleted", func(t *testing.T) {
		backend := &ownerBackend{status: api.StatusCancelled}
		h, _ := newTestHandler(t, backend.server(t))
		router := ownerRouter(h)

		form := url.Values{"confirmed": {"true"}}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(t, "/my-auctions/5/delete", form, resolvedSession()))

		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.True(t, backend.deleted)
	})

	t.Run("active auction is refused", func(t *testing.T) {
		backend := &ownerBackend{status: api.StatusActive}
		h, _ := newTestHandler(t, backend.server(t))
		router := ownerRouter(h)

		form := url.Values{"confirmed": {"true"}}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(t, "/my-auctions/5/delete", form, resolvedSession()))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), ErrDeleteNotCancelled.Error())
		assert.False(t, backend.deleted)
	})

	t.Run("unconfirmed is refused", func(t *testing.T) {
		backend := &ownerBackend{status: api.StatusCancelled}
		h, _ := newTestHandler(t, backend.server(t))
		router := ownerRouter(h)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(t, "/my-auctions/5/delete", url.Values{}, resolvedSession()))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), ErrDeleteUnconfirmed.Error())
		assert.False(t, backend.deleted)
	})
}

func TestMyAuctionsEditAffordances(t *testing.T) {
	tests := []struct {
		status       api.AuctionStatus
		wantEditLink bool
		wantDelete   bool
	}{
		{api.StatusActive, true, false},
		{api.StatusFinished, false, false},
		{api.StatusCancelled, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			backend := &ownerBackend{status: tt.status}
			h, _ := newTestHandler(t, backend.server(t))
			router := ownerRouter(h)

			req := withSession(httptest.NewRequest(http.MethodGet, "/my-auctions", nil), resolvedSession())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Equal(t, tt.wantEditLink, strings.Contains(body, `href="/my-auctions?edit=5"`))
			assert.Equal(t, tt.wantDelete, strings.Contains(body, `action="/my-auctions/5/delete"`))
		})
	}
}

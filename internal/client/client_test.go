package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"babywords/internal/models"
	"babywords/internal/security"
)

const testCSRFToken = "csrf-123"

// fakeAPI mimics the session and CSRF behavior of the real server
type fakeAPI struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
	patched  map[int64]string
}

func (f *fakeAPI) lastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeAPI) sawPath(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.URL.Path == path {
			return true
		}
	}
	return false
}

func (f *fakeAPI) patchedCategory(id int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.patched[id]
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(security.SessionCookieName)
			if err != nil || cookie.Value != "sess-1" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Unauthorized"}`))
				return
			}
			if r.Method != http.MethodGet && r.Header.Get(security.CSRFHeader) != testCSRFToken {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"Invalid CSRF token"}`))
				return
			}
			next(w, r)
		}
	}
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: security.SessionCookieName, Value: "sess-1", Path: "/"})
		writeJSON(w, http.StatusOK, currentUserResponse{ID: "u1", Email: req.Email, CSRFToken: testCSRFToken})
	})
	mux.HandleFunc("GET /api/me", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUserResponse{ID: "u1", Email: "a@b.com", CSRFToken: testCSRFToken})
	}))
	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: security.SessionCookieName, Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/auth/providers", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Provider{{Name: "google", Label: "Google", URL: "/auth/google/start"}})
	})
	mux.HandleFunc("GET /api/babies", authed(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"name":"Ada","photo_url":"https://img/ada.png"},{"id":2,"name":"Bo"}]`))
	}))
	mux.HandleFunc("GET /api/baby/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Baby not found"})
			return
		}
		writeJSON(w, http.StatusOK, models.Baby{ID: 1, Name: "Ada"})
	}))
	mux.HandleFunc("GET /api/words/{babyId}", authed(func(w http.ResponseWriter, r *http.Request) {
		entries := []models.WordEntry{
			{ID: 10, BabyID: 1, Word: "mama", Date: "2024-03-01", Category: "family"},
			{ID: 11, BabyID: 1, Word: "dog", Date: "2024-03-02", Category: "animal"},
		}
		if r.URL.Query().Get("sortAsc") == "false" {
			entries[0], entries[1] = entries[1], entries[0]
		}
		writeJSON(w, http.StatusOK, entries)
	}))
	mux.HandleFunc("PATCH /api/words/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		var req patchWordRequest
		json.NewDecoder(r.Body).Decode(&req)
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		f.mu.Lock()
		f.patched[id] = req.Category
		f.mu.Unlock()
		if id != 10 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, models.WordEntry{ID: 10, BabyID: 1, Word: "mama", Date: "2024-03-01", Category: req.Category})
	}))
	mux.HandleFunc("DELETE /api/words/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/stats", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.DayCount{{Date: "2024-03-02", Count: 1}, {Date: "2024-03-01", Count: 2}})
	}))
	mux.HandleFunc("GET /api/stats/summary", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.StatsSummary{Today: 1, Total: 3, TopCategory: "family",
			TopCategories: []models.CategoryCount{{Category: "family", Count: 2}}})
	}))
	mux.HandleFunc("POST /api/stats/digest", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, digestResponse{Sent: true})
	}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r)
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{patched: map[int64]string{}}
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, api
}

func signedIn(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	c, api := newTestClient(t)
	if _, err := c.SignIn(context.Background(), "a@b.com", "secret123"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	return c, api
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "://bad"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q) expected error", raw)
		}
	}
}

func TestCurrentUserWithoutSession(t *testing.T) {
	c, _ := newTestClient(t)

	user, err := c.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user != nil {
		t.Errorf("CurrentUser() = %+v, want nil", user)
	}
}

func TestSignInStoresSession(t *testing.T) {
	c, _ := signedIn(t)

	if c.SessionID() != "sess-1" {
		t.Errorf("SessionID() = %q, want sess-1", c.SessionID())
	}
	user, err := c.CurrentUser(context.Background())
	if err != nil || user == nil {
		t.Fatalf("CurrentUser() = %v, %v", user, err)
	}
	if user.ID != "u1" {
		t.Errorf("user.ID = %q, want u1", user.ID)
	}
}

func TestSignInFailureIsAPIError(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.SignIn(context.Background(), "a@b.com", "wrong")
	if !IsUnauthorized(err) {
		t.Fatalf("SignIn() error = %v, want unauthorized", err)
	}
	if !strings.Contains(err.Error(), "Invalid email or password") {
		t.Errorf("error %q should carry the server message", err)
	}
}

func TestUseSessionRestoresSavedSession(t *testing.T) {
	c, _ := newTestClient(t)
	c.UseSession("sess-1")

	user, err := c.CurrentUser(context.Background())
	if err != nil || user == nil {
		t.Fatalf("CurrentUser() = %v, %v", user, err)
	}

	// Mutations fetch the CSRF token lazily
	if err := c.DeleteWord(context.Background(), 10, "u1"); err != nil {
		t.Errorf("DeleteWord() error = %v", err)
	}
}

func TestMutationFetchesCSRFTokenLazily(t *testing.T) {
	c, api := newTestClient(t)
	c.UseSession("sess-1")

	if _, err := c.PatchWordCategory(context.Background(), 10, "food"); err != nil {
		t.Fatalf("PatchWordCategory() error = %v", err)
	}
	if got := api.patchedCategory(10); got != "food" {
		t.Errorf("patched category = %q, want food", got)
	}
	if !api.sawPath("/api/me") {
		t.Error("expected a /api/me request to fetch the CSRF token")
	}
}

func TestPatchWordCategoryWithoutEcho(t *testing.T) {
	c, api := newTestClient(t)
	c.UseSession("sess-1")

	entry, err := c.PatchWordCategory(context.Background(), 11, "animal")
	if err != nil {
		t.Fatalf("PatchWordCategory() error = %v", err)
	}
	if entry != nil {
		t.Errorf("entry = %+v, want nil for a bare acknowledgement", entry)
	}
	if got := api.patchedCategory(11); got != "animal" {
		t.Errorf("patched category = %q, want animal", got)
	}
}

func TestSignOutForgetsSession(t *testing.T) {
	c, _ := signedIn(t)

	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if c.SessionID() != "" {
		t.Errorf("SessionID() = %q after sign out", c.SessionID())
	}
	user, err := c.CurrentUser(context.Background())
	if err != nil || user != nil {
		t.Errorf("CurrentUser() = %v, %v; want nil, nil", user, err)
	}
}

func TestSignInWithProviderURL(t *testing.T) {
	c, err := New("https://api.example.com/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got := c.SignInWithProvider("google", "http://127.0.0.1:5555/done")
	want := "https://api.example.com/auth/google/start?return_to=http%3A%2F%2F127.0.0.1%3A5555%2Fdone"
	if got != want {
		t.Errorf("SignInWithProvider() = %q, want %q", got, want)
	}
	if got := c.SignInWithProvider("apple", ""); got != "https://api.example.com/auth/apple/start" {
		t.Errorf("SignInWithProvider() without return = %q", got)
	}
}

func TestProviders(t *testing.T) {
	c, _ := newTestClient(t)

	providers, err := c.Providers(context.Background())
	if err != nil {
		t.Fatalf("Providers() error = %v", err)
	}
	if len(providers) != 1 || providers[0].Name != "google" {
		t.Errorf("Providers() = %+v", providers)
	}
}

func TestListBabiesDecodesPhoto(t *testing.T) {
	c, _ := signedIn(t)

	babies, err := c.ListBabies(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListBabies() error = %v", err)
	}
	if len(babies) != 2 {
		t.Fatalf("len = %d, want 2", len(babies))
	}
	if babies[0].PhotoURL != "https://img/ada.png" || babies[1].PhotoURL != "" {
		t.Errorf("photos = %q, %q", babies[0].PhotoURL, babies[1].PhotoURL)
	}
}

func TestGetBabyNotFound(t *testing.T) {
	c, _ := signedIn(t)

	if _, err := c.GetBaby(context.Background(), "u1", 1); err != nil {
		t.Fatalf("GetBaby(1) error = %v", err)
	}
	_, err := c.GetBaby(context.Background(), "u1", 99)
	if !IsNotFound(err) {
		t.Errorf("GetBaby(99) error = %v, want not found", err)
	}
}

func TestListWordsSendsSortDirection(t *testing.T) {
	c, api := signedIn(t)

	words, err := c.ListWords(context.Background(), 1, "u1", false)
	if err != nil {
		t.Fatalf("ListWords() error = %v", err)
	}
	if words[0].ID != 11 {
		t.Errorf("first word = %d, want 11 for descending order", words[0].ID)
	}

	last := api.lastRequest()
	if last.URL.Query().Get("userId") != "u1" || last.URL.Query().Get("sortAsc") != "false" {
		t.Errorf("query = %s", last.URL.RawQuery)
	}
}

func TestSeriesOmitsEmptyFilters(t *testing.T) {
	c, api := signedIn(t)

	if _, err := c.Series(context.Background(), SeriesQuery{BabyID: 1, UserID: "u1"}); err != nil {
		t.Fatalf("Series() error = %v", err)
	}
	q := api.lastRequest().URL.Query()
	for _, key := range []string{"start", "end", "category"} {
		if q.Has(key) {
			t.Errorf("query should not include %s", key)
		}
	}

	if _, err := c.Series(context.Background(), SeriesQuery{BabyID: 1, UserID: "u1", Start: "2024-03-01", End: "2024-03-10", Category: "food"}); err != nil {
		t.Fatalf("Series() error = %v", err)
	}
	q = api.lastRequest().URL.Query()
	if q.Get("start") != "2024-03-01" || q.Get("end") != "2024-03-10" || q.Get("category") != "food" {
		t.Errorf("query = %v", q)
	}
}

func TestSummaryAndDigest(t *testing.T) {
	c, _ := signedIn(t)
	ctx := context.Background()

	summary, err := c.Summary(ctx, 1, "u1")
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.Total != 3 || summary.TopCategory != "family" {
		t.Errorf("Summary() = %+v", summary)
	}

	sent, err := c.SendDigest(ctx, 1, "u1")
	if err != nil {
		t.Fatalf("SendDigest() error = %v", err)
	}
	if !sent {
		t.Error("SendDigest() should report sent")
	}
}

func TestErrorWithoutJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = c.ListBabies(context.Background(), "u1")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Message != "Bad Gateway" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

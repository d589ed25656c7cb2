package commands

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"babywords/internal/cli/app"
	"babywords/internal/database"
	"babywords/internal/handlers"
	"babywords/internal/repository"
	"babywords/internal/security"
	"babywords/internal/service"
)

func init() {
	color.NoColor = true
}

// newServer starts the full API on a temporary SQLite database and points
// the command config at it
func newServer(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping command test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "cli.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	userRepo := repository.NewUserRepository(db)
	wordRepo := repository.NewWordRepository(db)
	authService := service.NewAuthService(userRepo, time.Hour)
	babyService := service.NewBabyService(repository.NewBabyRepository(db))
	statsService := service.NewStatsService(wordRepo, babyService)
	emailService, err := service.NewEmailService("us-east-1", "", "", "http://localhost", false)
	if err != nil {
		t.Fatalf("NewEmailService() error = %v", err)
	}

	csrf := security.NewCSRFGenerator("test-secret")
	router := &handlers.Router{
		Middleware: handlers.NewMiddleware(authService, csrf, security.NewRateLimiter(1000, time.Minute), ""),
		Auth:       handlers.NewAuthHandler(authService, csrf, map[string]handlers.OAuthProvider{}, "", "/"),
		Babies:     handlers.NewBabyHandler(babyService),
		Words:      handlers.NewWordHandler(service.NewWordService(wordRepo, babyService)),
		Stats:      handlers.NewStatsHandler(statsService, service.NewDigestService(statsService, emailService)),
		Startup:    handlers.NewStartupStatus("Database connection"),
	}

	server := httptest.NewServer(router.Handler())
	t.Cleanup(server.Close)

	dir := t.TempDir()
	t.Setenv("BABYWORDS_API_BASE", server.URL)
	t.Setenv("BABYWORDS_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("BABYWORDS_CONFIG_PATH", dir)
	t.Setenv("HOME", dir)
}

// run executes the command line and returns its output
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("babywords %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func expectContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestSignedOut(t *testing.T) {
	newServer(t)

	for _, args := range [][]string{
		{"whoami"},
		{"words", "list"},
		{"babies", "list"},
	} {
		if _, err := run(t, args...); !errors.Is(err, app.ErrSignedOut) {
			t.Errorf("%v error = %v, want ErrSignedOut", args, err)
		}
	}
}

func TestWordsWorkflow(t *testing.T) {
	newServer(t)

	out := mustRun(t, "login", "--email", "parent@example.com", "--password", "password123", "--register", "--name", "Parent")
	expectContains(t, out, "Signed in as parent@example.com", "Add your first baby")

	out = mustRun(t, "babies", "add", "Ada")
	expectContains(t, out, "Added Ada")

	out = mustRun(t, "whoami")
	expectContains(t, out, "parent@example.com", "Ada")

	out = mustRun(t, "words", "list")
	expectContains(t, out, "No words yet.")

	mustRun(t, "words", "add", "mama", "--category", "family", "--date", "2024-03-01")
	mustRun(t, "words", "add", "dog", "-c", "animal", "-d", "2024-03-02")
	mustRun(t, "words", "add", "up", "-d", "2024-03-03")

	out = mustRun(t, "words", "list")
	expectContains(t, out, "mama", "dog", "up", "3 of 3 words")
	if strings.Index(out, "up") > strings.Index(out, "mama") {
		t.Errorf("default order should be newest first:\n%s", out)
	}

	out = mustRun(t, "words", "list", "--asc")
	if strings.Index(out, "mama") > strings.Index(out, "dog") {
		t.Errorf("--asc should list oldest first:\n%s", out)
	}

	out = mustRun(t, "words", "list", "-c", "animal")
	expectContains(t, out, "dog", "1 of 3 words")
	if strings.Contains(out, "mama") {
		t.Errorf("filtered list should not contain mama:\n%s", out)
	}

	out = mustRun(t, "words", "list", "-c", "food")
	expectContains(t, out, "No Food words.")

	out = mustRun(t, "words", "categorize", "2", "vehicle")
	expectContains(t, out, "Saved word 2", "Vehicle")
	out = mustRun(t, "words", "list", "-c", "vehicle")
	expectContains(t, out, "dog")

	if _, err := run(t, "words", "categorize", "2", "dinosaur"); err == nil {
		t.Error("unknown category should be refused")
	}
	if _, err := run(t, "words", "add", "bad", "-d", "03/01/2024"); err == nil {
		t.Error("malformed date should be refused")
	}

	out = mustRun(t, "words", "delete", "1")
	expectContains(t, out, "Deleted word 1")
	out = mustRun(t, "words", "list")
	expectContains(t, out, "2 of 2 words")

	out = mustRun(t, "stats", "--start", "2024-03-01", "--end", "2024-03-07")
	expectContains(t, out, "Ada", "Total", "Top categories", "2024-03-02")

	out = mustRun(t, "digest")
	expectContains(t, out, "not configured")

	out = mustRun(t, "logout")
	expectContains(t, out, "Signed out")
	if _, err := run(t, "whoami"); !errors.Is(err, app.ErrSignedOut) {
		t.Errorf("whoami after logout error = %v, want ErrSignedOut", err)
	}
}

func TestBabiesSelection(t *testing.T) {
	newServer(t)

	mustRun(t, "login", "--email", "two@example.com", "--password", "password123", "--register", "--name", "Parent")
	mustRun(t, "babies", "add", "Ada")
	mustRun(t, "babies", "add", "Bo")

	out := mustRun(t, "babies", "list")
	expectContains(t, out, "Ada", "Bo")

	out = mustRun(t, "babies", "select", "bo")
	expectContains(t, out, "Now tracking Bo")
	out = mustRun(t, "whoami")
	expectContains(t, out, "Bo")

	mustRun(t, "babies", "edit", "2", "--name", "Bodhi")
	out = mustRun(t, "whoami")
	expectContains(t, out, "Bodhi")

	out, err := run(t, "babies", "use", "999")
	if err == nil {
		t.Fatal("use of an unknown ID should fail")
	}
	expectContains(t, out, "Baby ID not found!")

	out = mustRun(t, "babies", "use", "1")
	expectContains(t, out, "Now tracking Ada")
}

func TestStatsWithoutWords(t *testing.T) {
	newServer(t)

	mustRun(t, "login", "--email", "three@example.com", "--password", "password123", "--register", "--name", "Parent")
	mustRun(t, "babies", "add", "Ada")

	out := mustRun(t, "stats")
	expectContains(t, out, "No dashboard data yet")
}

func TestCategories(t *testing.T) {
	out := mustRun(t, "categories")
	expectContains(t, out, "family", "Animal")
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.raw)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseID(%q) = %d, %v", tt.raw, got, err)
		}
	}
}

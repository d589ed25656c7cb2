package repository

import (
	"path/filepath"
	"testing"
	"time"

	"babywords/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
	db, err := database.Initialize(filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, repo *UserRepository, id, email string) {
	t.Helper()
	if _, err := repo.CreateUser(id, email, "", "Parent"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
}

func TestUserRepositorySessions(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	seedUser(t, repo, "u-1", "parent@example.com")

	user, err := repo.GetUserByEmail("parent@example.com")
	if err != nil || user == nil {
		t.Fatalf("GetUserByEmail() = %v, %v", user, err)
	}
	if user.ID != "u-1" {
		t.Errorf("user.ID = %q, want u-1", user.ID)
	}

	missing, err := repo.GetUserByID("nobody")
	if err != nil || missing != nil {
		t.Errorf("GetUserByID(nobody) = %v, %v, want nil, nil", missing, err)
	}

	if _, err := repo.CreateSession("s-live", "u-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := repo.CreateSession("s-old", "u-1", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if err := repo.DeleteExpiredSessions(); err != nil {
		t.Fatalf("DeleteExpiredSessions() error = %v", err)
	}

	live, err := repo.GetSession("s-live")
	if err != nil || live == nil {
		t.Fatalf("GetSession(s-live) = %v, %v", live, err)
	}
	if live.IsExpired() {
		t.Error("live session reported as expired")
	}
	old, err := repo.GetSession("s-old")
	if err != nil || old != nil {
		t.Errorf("expired session should be gone, got %v, %v", old, err)
	}
}

func TestUserRepositoryOAuthLink(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	seedUser(t, repo, "u-1", "parent@example.com")

	if err := repo.LinkOAuthProvider("u-1", "google", "sub-123"); err != nil {
		t.Fatalf("LinkOAuthProvider() error = %v", err)
	}
	user, err := repo.GetUserByOAuth("google", "sub-123")
	if err != nil || user == nil {
		t.Fatalf("GetUserByOAuth() = %v, %v", user, err)
	}
	if user.OAuthProvider != "google" {
		t.Errorf("OAuthProvider = %q, want google", user.OAuthProvider)
	}
}

func TestBabyRepository(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	seedUser(t, users, "u-1", "one@example.com")
	seedUser(t, users, "u-2", "two@example.com")
	repo := NewBabyRepository(db)

	first, err := repo.CreateBaby("u-1", "Pat", "")
	if err != nil {
		t.Fatalf("CreateBaby() error = %v", err)
	}
	if _, err := repo.CreateBaby("u-1", "Sam", "https://img/sam.jpg"); err != nil {
		t.Fatalf("CreateBaby() error = %v", err)
	}
	if _, err := repo.CreateBaby("u-2", "Alex", ""); err != nil {
		t.Fatalf("CreateBaby() error = %v", err)
	}

	babies, err := repo.GetUserBabies("u-1")
	if err != nil {
		t.Fatalf("GetUserBabies() error = %v", err)
	}
	if len(babies) != 2 {
		t.Fatalf("GetUserBabies() returned %d babies, want 2", len(babies))
	}
	if babies[0].ID != first.ID {
		t.Errorf("first baby = %d, want %d", babies[0].ID, first.ID)
	}

	if err := repo.UpdateBaby(first.ID, "Patricia", "https://img/p.jpg"); err != nil {
		t.Fatalf("UpdateBaby() error = %v", err)
	}
	updated, err := repo.GetBabyByID(first.ID)
	if err != nil || updated == nil {
		t.Fatalf("GetBabyByID() = %v, %v", updated, err)
	}
	if updated.Name != "Patricia" || updated.PhotoURL != "https://img/p.jpg" {
		t.Errorf("unexpected updated baby %+v", updated)
	}

	none, err := repo.GetUserBabies("u-3")
	if err != nil {
		t.Fatalf("GetUserBabies() error = %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestWordRepository(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, NewUserRepository(db), "u-1", "one@example.com")
	baby, err := NewBabyRepository(db).CreateBaby("u-1", "Pat", "")
	if err != nil {
		t.Fatalf("CreateBaby() error = %v", err)
	}
	repo := NewWordRepository(db)

	words := []struct {
		word, date, category string
	}{
		{"mama", "2024-03-01", "family"},
		{"dog", "2024-03-03", "animal"},
		{"milk", "2024-03-03", "food"},
		{"car", "2024-02-20", ""},
	}
	var ids []int64
	for _, w := range words {
		entry, err := repo.AddWord(baby.ID, "u-1", w.word, w.date, w.category)
		if err != nil {
			t.Fatalf("AddWord(%s) error = %v", w.word, err)
		}
		ids = append(ids, entry.ID)
	}

	asc, err := repo.GetBabyWords(baby.ID, true)
	if err != nil {
		t.Fatalf("GetBabyWords(asc) error = %v", err)
	}
	wantAsc := []string{"car", "mama", "dog", "milk"}
	for i, w := range asc {
		if w.Word != wantAsc[i] {
			t.Errorf("asc[%d] = %s, want %s", i, w.Word, wantAsc[i])
		}
	}

	desc, err := repo.GetBabyWords(baby.ID, false)
	if err != nil {
		t.Fatalf("GetBabyWords(desc) error = %v", err)
	}
	if desc[0].Word != "milk" || desc[len(desc)-1].Word != "car" {
		t.Errorf("unexpected desc order: %v", desc)
	}

	if err := repo.UpdateWordCategory(ids[3], "vehicle"); err != nil {
		t.Fatalf("UpdateWordCategory() error = %v", err)
	}
	car, err := repo.GetWordByID(ids[3])
	if err != nil || car == nil || car.Category != "vehicle" {
		t.Fatalf("GetWordByID() = %+v, %v", car, err)
	}

	counts, err := repo.CountWordsByDay(baby.ID, "2024-03-01", "2024-03-31", "")
	if err != nil {
		t.Fatalf("CountWordsByDay() error = %v", err)
	}
	if len(counts) != 2 || counts[0].Date != "2024-03-01" || counts[1].Count != 2 {
		t.Errorf("unexpected counts %+v", counts)
	}

	animal, err := repo.CountWordsByDay(baby.ID, "2024-01-01", "2024-12-31", "animal")
	if err != nil {
		t.Fatalf("CountWordsByDay(animal) error = %v", err)
	}
	if len(animal) != 1 || animal[0].Count != 1 {
		t.Errorf("unexpected animal counts %+v", animal)
	}

	if err := repo.DeleteWord(ids[0]); err != nil {
		t.Fatalf("DeleteWord() error = %v", err)
	}
	gone, err := repo.GetWordByID(ids[0])
	if err != nil || gone != nil {
		t.Errorf("deleted word still present: %+v, %v", gone, err)
	}
}

package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"babywords/internal/database"
)

const backupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version    string       `json:"version"`
	ExportedAt time.Time    `json:"exported_at"`
	Users      []UserBackup `json:"users"`
	Babies     []BabyBackup `json:"babies"`
	Words      []WordBackup `json:"words"`
}

// UserBackup represents a user record for backup
type UserBackup struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BabyBackup represents a baby profile for backup
type BabyBackup struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photo_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WordBackup represents a recorded word for backup
type WordBackup struct {
	ID        int64     `json:"id"`
	BabyID    int64     `json:"baby_id"`
	UserID    string    `json:"user_id"`
	Word      string    `json:"word"`
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter writes a complete backup as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    backupVersion,
		ExportedAt: time.Now().UTC(),
		Users:      []UserBackup{},
		Babies:     []BabyBackup{},
		Words:      []WordBackup{},
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportBabies(backup); err != nil {
		return fmt.Errorf("failed to export babies: %w", err)
	}
	if err := s.exportWords(backup); err != nil {
		return fmt.Errorf("failed to export words: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d users, %d babies, %d words", len(backup.Users), len(backup.Babies), len(backup.Words))
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a backup inside a single transaction
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	log.Println("Starting database import...")

	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	err := s.db.WithTx(func(tx *database.Tx) error {
		if err := importUsers(tx, backup.Users); err != nil {
			return fmt.Errorf("failed to import users: %w", err)
		}
		if err := importBabies(tx, backup.Babies); err != nil {
			return fmt.Errorf("failed to import babies: %w", err)
		}
		if err := importWords(tx, backup.Words); err != nil {
			return fmt.Errorf("failed to import words: %w", err)
		}
		return resetSequences(tx)
	})
	if err != nil {
		return err
	}

	log.Printf("Database import completed: %d users, %d babies, %d words", len(backup.Users), len(backup.Babies), len(backup.Words))
	return nil
}

// ClearAll deletes every row, children first
func (s *BackupService) ClearAll() error {
	tables := []string{"words", "babies", "sessions", "users"}
	return s.db.WithTx(func(tx *database.Tx) error {
		for _, table := range tables {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
			log.Printf("Cleared table: %s", table)
		}
		return nil
	})
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := "SELECT id, email, password_hash, name, COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at, updated_at FROM users ORDER BY created_at, id"
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportBabies(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, user_id, name, photo_url, created_at, updated_at FROM babies ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b BabyBackup
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.PhotoURL, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return err
		}
		backup.Babies = append(backup.Babies, b)
	}
	return rows.Err()
}

func (s *BackupService) exportWords(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, baby_id, user_id, word, spoken_on, category, created_at FROM words ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var w WordBackup
		if err := rows.Scan(&w.ID, &w.BabyID, &w.UserID, &w.Word, &w.Date, &w.Category, &w.CreatedAt); err != nil {
			return err
		}
		backup.Words = append(backup.Words, w)
	}
	return rows.Err()
}

func importUsers(tx *database.Tx, users []UserBackup) error {
	query := `INSERT INTO users (id, email, password_hash, name, oauth_provider, oauth_subject, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for _, u := range users {
		if _, err := tx.Exec(query, u.ID, u.Email, u.PasswordHash, u.Name,
			nullIfEmpty(u.OAuthProvider), nullIfEmpty(u.OAuthSubject), u.CreatedAt, u.UpdatedAt); err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
	}
	return nil
}

func importBabies(tx *database.Tx, babies []BabyBackup) error {
	query := "INSERT INTO babies (id, user_id, name, photo_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	for _, b := range babies {
		if _, err := tx.Exec(query, b.ID, b.UserID, b.Name, b.PhotoURL, b.CreatedAt, b.UpdatedAt); err != nil {
			return fmt.Errorf("baby %d: %w", b.ID, err)
		}
	}
	return nil
}

func importWords(tx *database.Tx, words []WordBackup) error {
	query := "INSERT INTO words (id, baby_id, user_id, word, spoken_on, category, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	for _, w := range words {
		if _, err := tx.Exec(query, w.ID, w.BabyID, w.UserID, w.Word, w.Date, w.Category, w.CreatedAt); err != nil {
			return fmt.Errorf("word %d: %w", w.ID, err)
		}
	}
	return nil
}

// resetSequences moves postgres serial counters past the imported ids
func resetSequences(tx *database.Tx) error {
	if tx.GetDialect().DriverName() != "postgres" {
		return nil
	}
	for _, table := range []string{"babies", "words"} {
		query := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)", table, table)
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to reset %s sequence: %w", table, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

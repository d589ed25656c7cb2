package repository

import (
	"database/sql"
	"fmt"
	"time"

	"babywords/internal/database"
	"babywords/internal/models"
)

// WordRepository handles database operations for recorded words
type WordRepository struct {
	db *database.DB
}

// NewWordRepository creates a new word repository
func NewWordRepository(db *database.DB) *WordRepository {
	return &WordRepository{db: db}
}

// AddWord records a spoken word for a baby
func (r *WordRepository) AddWord(babyID int64, userID, word, date, category string) (*models.WordEntry, error) {
	query := "INSERT INTO words (baby_id, user_id, word, spoken_on, category) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, babyID, userID, word, date, category)
	if err != nil {
		return nil, fmt.Errorf("failed to add word: %w", err)
	}

	return &models.WordEntry{
		ID:        id,
		BabyID:    babyID,
		UserID:    userID,
		Word:      word,
		Date:      date,
		Category:  category,
		CreatedAt: time.Now(),
	}, nil
}

// GetWordByID retrieves a word by ID
func (r *WordRepository) GetWordByID(wordID int64) (*models.WordEntry, error) {
	query := "SELECT id, baby_id, user_id, word, spoken_on, category, created_at FROM words WHERE id = ?"
	word := &models.WordEntry{}
	err := r.db.QueryRow(query, wordID).Scan(
		&word.ID,
		&word.BabyID,
		&word.UserID,
		&word.Word,
		&word.Date,
		&word.Category,
		&word.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}

	return word, nil
}

// GetBabyWords retrieves a baby's words ordered by date; ties keep insertion order
func (r *WordRepository) GetBabyWords(babyID int64, sortAsc bool) ([]models.WordEntry, error) {
	direction := "DESC"
	if sortAsc {
		direction = "ASC"
	}
	query := `
		SELECT id, baby_id, user_id, word, spoken_on, category, created_at
		FROM words
		WHERE baby_id = ?
		ORDER BY spoken_on ` + direction + `, id ` + direction

	rows, err := r.db.Query(query, babyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	words := []models.WordEntry{}
	for rows.Next() {
		var word models.WordEntry
		if err := rows.Scan(
			&word.ID,
			&word.BabyID,
			&word.UserID,
			&word.Word,
			&word.Date,
			&word.Category,
			&word.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		words = append(words, word)
	}

	return words, rows.Err()
}

// UpdateWordCategory replaces only the category of a word
func (r *WordRepository) UpdateWordCategory(wordID int64, category string) error {
	if _, err := r.db.Exec("UPDATE words SET category = ? WHERE id = ?", category, wordID); err != nil {
		return fmt.Errorf("failed to update word category: %w", err)
	}
	return nil
}

// DeleteWord deletes a word
func (r *WordRepository) DeleteWord(wordID int64) error {
	if _, err := r.db.Exec("DELETE FROM words WHERE id = ?", wordID); err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	return nil
}

// CountWordsByDay returns per-day counts within [start, end], optionally for one category
func (r *WordRepository) CountWordsByDay(babyID int64, start, end, category string) ([]models.DayCount, error) {
	query := `
		SELECT spoken_on, COUNT(*)
		FROM words
		WHERE baby_id = ? AND spoken_on >= ? AND spoken_on <= ?
	`
	args := []interface{}{babyID, start, end}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " GROUP BY spoken_on ORDER BY spoken_on ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count words: %w", err)
	}
	defer rows.Close()

	counts := []models.DayCount{}
	for rows.Next() {
		var c models.DayCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan word count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

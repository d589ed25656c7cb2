package repository

import (
	"database/sql"
	"fmt"
	"time"

	"babywords/internal/database"
	"babywords/internal/models"
)

// BabyRepository handles database operations for baby profiles
type BabyRepository struct {
	db *database.DB
}

// NewBabyRepository creates a new baby repository
func NewBabyRepository(db *database.DB) *BabyRepository {
	return &BabyRepository{db: db}
}

// CreateBaby creates a new baby profile owned by userID
func (r *BabyRepository) CreateBaby(userID, name, photoURL string) (*models.Baby, error) {
	query := "INSERT INTO babies (user_id, name, photo_url) VALUES (?, ?, ?)"
	id, err := r.db.ExecReturningID(query, userID, name, photoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create baby: %w", err)
	}

	now := time.Now()
	return &models.Baby{
		ID:        id,
		UserID:    userID,
		Name:      name,
		PhotoURL:  photoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetBabyByID retrieves a baby by ID
func (r *BabyRepository) GetBabyByID(babyID int64) (*models.Baby, error) {
	query := "SELECT id, user_id, name, photo_url, created_at, updated_at FROM babies WHERE id = ?"
	baby := &models.Baby{}
	err := r.db.QueryRow(query, babyID).Scan(
		&baby.ID,
		&baby.UserID,
		&baby.Name,
		&baby.PhotoURL,
		&baby.CreatedAt,
		&baby.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get baby: %w", err)
	}

	return baby, nil
}

// GetUserBabies retrieves all babies owned by a user, oldest first
func (r *BabyRepository) GetUserBabies(userID string) ([]models.Baby, error) {
	query := `
		SELECT id, user_id, name, photo_url, created_at, updated_at
		FROM babies
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query babies: %w", err)
	}
	defer rows.Close()

	babies := []models.Baby{}
	for rows.Next() {
		var baby models.Baby
		if err := rows.Scan(
			&baby.ID,
			&baby.UserID,
			&baby.Name,
			&baby.PhotoURL,
			&baby.CreatedAt,
			&baby.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan baby: %w", err)
		}
		babies = append(babies, baby)
	}

	return babies, rows.Err()
}

// UpdateBaby updates a baby's name and photo
func (r *BabyRepository) UpdateBaby(babyID int64, name, photoURL string) error {
	query := "UPDATE babies SET name = ?, photo_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, name, photoURL, babyID); err != nil {
		return fmt.Errorf("failed to update baby: %w", err)
	}
	return nil
}

package service

import (
	"errors"
	"fmt"
	"strings"

	"babywords/internal/models"
	"babywords/internal/repository"
	"babywords/internal/validation"
)

// ErrBabyNotFound covers both missing profiles and profiles owned by someone else
var ErrBabyNotFound = errors.New("baby not found")

// BabyService manages baby profiles
type BabyService struct {
	babyRepo *repository.BabyRepository
}

// NewBabyService creates a new baby service
func NewBabyService(babyRepo *repository.BabyRepository) *BabyService {
	return &BabyService{babyRepo: babyRepo}
}

// ListBabies returns the user's profiles, oldest first
func (s *BabyService) ListBabies(userID string) ([]models.Baby, error) {
	babies, err := s.babyRepo.GetUserBabies(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list babies: %w", err)
	}
	return babies, nil
}

// CreateBaby creates a profile owned by userID
func (s *BabyService) CreateBaby(userID, name, photoURL string) (*models.Baby, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateBabyName(name); err != nil {
		return nil, err
	}
	return s.babyRepo.CreateBaby(userID, name, strings.TrimSpace(photoURL))
}

// GetBaby returns a profile owned by userID
func (s *BabyService) GetBaby(userID string, babyID int64) (*models.Baby, error) {
	baby, err := s.babyRepo.GetBabyByID(babyID)
	if err != nil {
		return nil, err
	}
	if baby == nil || baby.UserID != userID {
		return nil, ErrBabyNotFound
	}
	return baby, nil
}

// UpdateBaby edits a profile's name and photo in place
func (s *BabyService) UpdateBaby(userID string, babyID int64, name, photoURL string) (*models.Baby, error) {
	baby, err := s.GetBaby(userID, babyID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validation.ValidateBabyName(name); err != nil {
		return nil, err
	}
	photoURL = strings.TrimSpace(photoURL)
	if err := s.babyRepo.UpdateBaby(babyID, name, photoURL); err != nil {
		return nil, err
	}
	baby.Name = name
	baby.PhotoURL = photoURL
	return baby, nil
}

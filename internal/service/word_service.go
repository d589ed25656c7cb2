package service

import (
	"errors"
	"strings"

	"babywords/internal/category"
	"babywords/internal/models"
	"babywords/internal/repository"
	"babywords/internal/validation"
)

// ErrWordNotFound covers both missing words and words owned by someone else
var ErrWordNotFound = errors.New("word not found")

// WordService records and curates spoken words
type WordService struct {
	wordRepo *repository.WordRepository
	babies   *BabyService
}

// NewWordService creates a new word service
func NewWordService(wordRepo *repository.WordRepository, babies *BabyService) *WordService {
	return &WordService{
		wordRepo: wordRepo,
		babies:   babies,
	}
}

// AddWord records a word for a baby owned by userID
func (s *WordService) AddWord(userID string, babyID int64, word, date, cat string) (*models.WordEntry, error) {
	word = strings.TrimSpace(word)
	cat = category.Normalize(cat)
	if err := validation.ValidateWord(word); err != nil {
		return nil, err
	}
	if err := validation.ValidateDate(date); err != nil {
		return nil, err
	}
	if err := validation.ValidateCategory(cat); err != nil {
		return nil, err
	}
	if _, err := s.babies.GetBaby(userID, babyID); err != nil {
		return nil, err
	}
	return s.wordRepo.AddWord(babyID, userID, word, date, cat)
}

// ListWords returns every word of a baby sorted by date
func (s *WordService) ListWords(userID string, babyID int64, sortAsc bool) ([]models.WordEntry, error) {
	if _, err := s.babies.GetBaby(userID, babyID); err != nil {
		return nil, err
	}
	return s.wordRepo.GetBabyWords(babyID, sortAsc)
}

// SetCategory replaces a word's category and returns the updated entry
func (s *WordService) SetCategory(userID string, wordID int64, cat string) (*models.WordEntry, error) {
	cat = category.Normalize(cat)
	if err := validation.ValidateCategory(cat); err != nil {
		return nil, err
	}
	entry, err := s.ownedWord(userID, wordID)
	if err != nil {
		return nil, err
	}
	if err := s.wordRepo.UpdateWordCategory(wordID, cat); err != nil {
		return nil, err
	}
	entry.Category = cat
	return entry, nil
}

// DeleteWord removes a word owned by userID
func (s *WordService) DeleteWord(userID string, wordID int64) error {
	if _, err := s.ownedWord(userID, wordID); err != nil {
		return err
	}
	return s.wordRepo.DeleteWord(wordID)
}

func (s *WordService) ownedWord(userID string, wordID int64) (*models.WordEntry, error) {
	entry, err := s.wordRepo.GetWordByID(wordID)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.UserID != userID {
		return nil, ErrWordNotFound
	}
	return entry, nil
}

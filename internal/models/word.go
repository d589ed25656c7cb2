package models

import "time"

// DateLayout is the ISO calendar date format used on the wire and in storage
const DateLayout = "2006-01-02"

// WordEntry is one recorded spoken word
type WordEntry struct {
	ID        int64     `json:"id"`
	BabyID    int64     `json:"babyId"`
	UserID    string    `json:"-"`
	Word      string    `json:"word"`
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"-"`
}

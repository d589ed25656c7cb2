package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"babywords/internal/models"
)

type babyRequest struct {
	Name     string `json:"name"`
	UserID   string `json:"userId"`
	PhotoURL string `json:"photoUrl"`
}

type addWordRequest struct {
	Word     string `json:"word"`
	Date     string `json:"date"`
	BabyID   int64  `json:"babyId"`
	Category string `json:"category"`
	UserID   string `json:"userId"`
}

type patchWordRequest struct {
	Category string `json:"category"`
}

type digestRequest struct {
	BabyID int64  `json:"babyId"`
	UserID string `json:"userId"`
}

type digestResponse struct {
	Sent bool `json:"sent"`
}

// SeriesQuery selects a per-day count window. Empty Start/End use the server
// default of the last 30 days; an empty Category counts every word.
type SeriesQuery struct {
	BabyID   int64
	UserID   string
	Start    string
	End      string
	Category string
}

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

// ListBabies returns the profiles owned by userID
func (c *Client) ListBabies(ctx context.Context, userID string) ([]models.Baby, error) {
	babies := []models.Baby{}
	err := c.do(ctx, http.MethodGet, "/api/babies", url.Values{"userId": {userID}}, nil, &babies)
	if err != nil {
		return nil, err
	}
	return babies, nil
}

// CreateBaby adds a profile for userID
func (c *Client) CreateBaby(ctx context.Context, userID, name, photoURL string) (*models.Baby, error) {
	var baby models.Baby
	req := babyRequest{Name: name, UserID: userID, PhotoURL: photoURL}
	if err := c.do(ctx, http.MethodPost, "/api/baby", nil, req, &baby); err != nil {
		return nil, err
	}
	return &baby, nil
}

// UpdateBaby replaces a profile's name and photo
func (c *Client) UpdateBaby(ctx context.Context, userID string, id int64, name, photoURL string) (*models.Baby, error) {
	var baby models.Baby
	req := babyRequest{Name: name, UserID: userID, PhotoURL: photoURL}
	if err := c.do(ctx, http.MethodPut, idPath("/api/baby/", id), nil, req, &baby); err != nil {
		return nil, err
	}
	return &baby, nil
}

// GetBaby looks up one profile. IsNotFound(err) is true when it does not
// exist or belongs to someone else.
func (c *Client) GetBaby(ctx context.Context, userID string, id int64) (*models.Baby, error) {
	var baby models.Baby
	err := c.do(ctx, http.MethodGet, idPath("/api/baby/", id), url.Values{"userId": {userID}}, nil, &baby)
	if err != nil {
		return nil, err
	}
	return &baby, nil
}

// AddWord records a word for entry.BabyID
func (c *Client) AddWord(ctx context.Context, userID string, entry models.WordEntry) (*models.WordEntry, error) {
	var created models.WordEntry
	req := addWordRequest{
		Word:     entry.Word,
		Date:     entry.Date,
		BabyID:   entry.BabyID,
		Category: entry.Category,
		UserID:   userID,
	}
	if err := c.do(ctx, http.MethodPost, "/api/words", nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListWords returns a profile's words sorted by date in the given direction
func (c *Client) ListWords(ctx context.Context, babyID int64, userID string, sortAsc bool) ([]models.WordEntry, error) {
	words := []models.WordEntry{}
	query := url.Values{
		"userId":  {userID},
		"sortAsc": {strconv.FormatBool(sortAsc)},
	}
	if err := c.do(ctx, http.MethodGet, idPath("/api/words/", babyID), query, nil, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// PatchWordCategory changes only the category of a word. The updated entry
// is nil when the server acknowledges without echoing it.
func (c *Client) PatchWordCategory(ctx context.Context, id int64, category string) (*models.WordEntry, error) {
	var entry models.WordEntry
	req := patchWordRequest{Category: category}
	if err := c.do(ctx, http.MethodPatch, idPath("/api/words/", id), nil, req, &entry); err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		// acknowledged without a body
		return nil, nil
	}
	return &entry, nil
}

// DeleteWord removes a word owned by userID
func (c *Client) DeleteWord(ctx context.Context, id int64, userID string) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/words/", id), url.Values{"userId": {userID}}, nil, nil)
}

// Series returns per-day counts for the query window, in server order
func (c *Client) Series(ctx context.Context, q SeriesQuery) ([]models.DayCount, error) {
	query := url.Values{
		"babyId": {strconv.FormatInt(q.BabyID, 10)},
		"userId": {q.UserID},
	}
	if q.Start != "" {
		query.Set("start", q.Start)
	}
	if q.End != "" {
		query.Set("end", q.End)
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}

	series := []models.DayCount{}
	if err := c.do(ctx, http.MethodGet, "/api/stats", query, nil, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// Summary returns the dashboard counters for a profile
func (c *Client) Summary(ctx context.Context, babyID int64, userID string) (*models.StatsSummary, error) {
	query := url.Values{
		"babyId": {strconv.FormatInt(babyID, 10)},
		"userId": {userID},
	}
	var summary models.StatsSummary
	if err := c.do(ctx, http.MethodGet, "/api/stats/summary", query, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SendDigest asks the server to email the weekly digest. It reports false
// when email delivery is not configured on the server.
func (c *Client) SendDigest(ctx context.Context, babyID int64, userID string) (bool, error) {
	var resp digestResponse
	req := digestRequest{BabyID: babyID, UserID: userID}
	if err := c.do(ctx, http.MethodPost, "/api/stats/digest", nil, req, &resp); err != nil {
		return false, fmt.Errorf("failed to send digest: %w", err)
	}
	return resp.Sent, nil
}

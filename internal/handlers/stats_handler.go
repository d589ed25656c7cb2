package handlers

import (
	"net/http"
	"strconv"

	"babywords/internal/service"
)

// StatsHandler serves the dashboard aggregates
type StatsHandler struct {
	statsService  *service.StatsService
	digestService *service.DigestService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService, digestService *service.DigestService) *StatsHandler {
	return &StatsHandler{
		statsService:  statsService,
		digestService: digestService,
	}
}

type digestRequest struct {
	BabyID int64  `json:"babyId"`
	UserID string `json:"userId"`
}

type digestResponse struct {
	Sent bool `json:"sent"`
}

// Series handles GET /api/stats?babyId=&userId=&start=&end=&category=
func (h *StatsHandler) Series(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	babyID, ok := queryID(w, q.Get("babyId"))
	if !ok {
		return
	}
	user := requireUserParam(w, r, q.Get("userId"))
	if user == nil {
		return
	}

	series, err := h.statsService.Series(user.ID, babyID, q.Get("start"), q.Get("end"), q.Get("category"))
	if err != nil {
		respondWithServiceError(w, "Error loading stats", err)
		return
	}
	respondJSON(w, http.StatusOK, series)
}

// Summary handles GET /api/stats/summary?babyId=&userId=
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	babyID, ok := queryID(w, q.Get("babyId"))
	if !ok {
		return
	}
	user := requireUserParam(w, r, q.Get("userId"))
	if user == nil {
		return
	}

	summary, err := h.statsService.Summary(user.ID, babyID)
	if err != nil {
		respondWithServiceError(w, "Error loading summary", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// SendDigest handles POST /api/stats/digest
func (h *StatsHandler) SendDigest(w http.ResponseWriter, r *http.Request) {
	var req digestRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	user := requireUserParam(w, r, req.UserID)
	if user == nil {
		return
	}

	sent, err := h.digestService.SendDigest(r.Context(), user, req.BabyID)
	if err != nil {
		respondWithServiceError(w, "Error sending digest", err)
		return
	}
	respondJSON(w, http.StatusOK, digestResponse{Sent: sent})
}

func queryID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "babyId is required", "", nil)
		return 0, false
	}
	return id, true
}

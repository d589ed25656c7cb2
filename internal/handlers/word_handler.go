package handlers

import (
	"net/http"
	"strconv"

	"babywords/internal/service"
)

// WordHandler serves the word endpoints
type WordHandler struct {
	wordService *service.WordService
}

// NewWordHandler creates a new word handler
func NewWordHandler(wordService *service.WordService) *WordHandler {
	return &WordHandler{wordService: wordService}
}

type addWordRequest struct {
	Word     string `json:"word"`
	Date     string `json:"date"`
	BabyID   int64  `json:"babyId"`
	Category string `json:"category"`
	UserID   string `json:"userId"`
}

type patchWordRequest struct {
	Category *string `json:"category"`
}

// AddWord handles POST /api/words
func (h *WordHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	var req addWordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	user := requireUserParam(w, r, req.UserID)
	if user == nil {
		return
	}

	entry, err := h.wordService.AddWord(user.ID, req.BabyID, req.Word, req.Date, req.Category)
	if err != nil {
		respondWithServiceError(w, "Error adding word", err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// ListWords handles GET /api/words/{babyId}?userId=&sortAsc=
func (h *WordHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	babyID, ok := pathID(w, r, "babyId")
	if !ok {
		return
	}
	user := requireUserParam(w, r, r.URL.Query().Get("userId"))
	if user == nil {
		return
	}

	sortAsc := false
	if raw := r.URL.Query().Get("sortAsc"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "sortAsc must be true or false", "", nil)
			return
		}
		sortAsc = parsed
	}

	words, err := h.wordService.ListWords(user.ID, babyID, sortAsc)
	if err != nil {
		respondWithServiceError(w, "Error listing words", err)
		return
	}
	respondJSON(w, http.StatusOK, words)
}

// PatchWord handles PATCH /api/words/{id}; only the category can change
func (h *WordHandler) PatchWord(w http.ResponseWriter, r *http.Request) {
	wordID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req patchWordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if req.Category == nil {
		respondWithError(w, http.StatusBadRequest, "category is required", "", nil)
		return
	}
	user := GetUserFromContext(r.Context())

	entry, err := h.wordService.SetCategory(user.ID, wordID, *req.Category)
	if err != nil {
		respondWithServiceError(w, "Error updating word", err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// DeleteWord handles DELETE /api/words/{id}?userId=
func (h *WordHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	wordID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	user := requireUserParam(w, r, r.URL.Query().Get("userId"))
	if user == nil {
		return
	}

	if err := h.wordService.DeleteWord(user.ID, wordID); err != nil {
		respondWithServiceError(w, "Error deleting word", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"
	"strconv"

	"babywords/internal/service"
)

// BabyHandler serves the profile endpoints
type BabyHandler struct {
	babyService *service.BabyService
}

// NewBabyHandler creates a new baby handler
func NewBabyHandler(babyService *service.BabyService) *BabyHandler {
	return &BabyHandler{babyService: babyService}
}

type babyRequest struct {
	Name     string `json:"name"`
	UserID   string `json:"userId"`
	PhotoURL string `json:"photoUrl"`
}

// ListBabies handles GET /api/babies?userId=
func (h *BabyHandler) ListBabies(w http.ResponseWriter, r *http.Request) {
	user := requireUserParam(w, r, r.URL.Query().Get("userId"))
	if user == nil {
		return
	}

	babies, err := h.babyService.ListBabies(user.ID)
	if err != nil {
		respondWithServiceError(w, "Error listing babies", err)
		return
	}
	respondJSON(w, http.StatusOK, babies)
}

// CreateBaby handles POST /api/baby
func (h *BabyHandler) CreateBaby(w http.ResponseWriter, r *http.Request) {
	var req babyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	user := requireUserParam(w, r, req.UserID)
	if user == nil {
		return
	}

	baby, err := h.babyService.CreateBaby(user.ID, req.Name, req.PhotoURL)
	if err != nil {
		respondWithServiceError(w, "Error creating baby", err)
		return
	}
	respondJSON(w, http.StatusCreated, baby)
}

// GetBaby handles GET /api/baby/{id}?userId=
func (h *BabyHandler) GetBaby(w http.ResponseWriter, r *http.Request) {
	babyID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	user := requireUserParam(w, r, r.URL.Query().Get("userId"))
	if user == nil {
		return
	}

	baby, err := h.babyService.GetBaby(user.ID, babyID)
	if err != nil {
		respondWithServiceError(w, "Error getting baby", err)
		return
	}
	respondJSON(w, http.StatusOK, baby)
}

// UpdateBaby handles PUT /api/baby/{id}. The session user must own the profile.
func (h *BabyHandler) UpdateBaby(w http.ResponseWriter, r *http.Request) {
	babyID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req babyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	user := GetUserFromContext(r.Context())
	if req.UserID != "" {
		if user = requireUserParam(w, r, req.UserID); user == nil {
			return
		}
	}

	baby, err := h.babyService.UpdateBaby(user.ID, babyID, req.Name, req.PhotoURL)
	if err != nil {
		respondWithServiceError(w, "Error updating baby", err)
		return
	}
	respondJSON(w, http.StatusOK, baby)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
		return 0, false
	}
	return id, true
}

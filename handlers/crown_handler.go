package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"shelfscout/middleware"
	"shelfscout/services"
)

type CrownHandler struct {
	crownService *services.CrownService
}

func NewCrownHandler(crownService *services.CrownService) *CrownHandler {
	return &CrownHandler{
		crownService: crownService,
	}
}

func (h *CrownHandler) GetRegionCrowns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	regionID, err := uuid.Parse(mux.Vars(r)["regionId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid region ID")
		return
	}

	var cycleID *uuid.UUID
	if raw := r.URL.Query().Get("cycle_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid cycle ID")
			return
		}
		cycleID = &id
	}

	crowns, err := h.crownService.GetCrowns(ctx, regionID, cycleID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, crowns)
}

func (h *CrownHandler) GetCrownHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	crownID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid crown ID")
		return
	}

	history, err := h.crownService.GetHistory(ctx, crownID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, history)
}

func (h *CrownHandler) GetMyCrowns(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	crowns, err := h.crownService.GetUserCrowns(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, crowns)
}

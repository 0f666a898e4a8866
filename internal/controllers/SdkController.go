package controllers

import (
	"errors"
	json "github.com/goccy/go-json"
	"net/http"

	"ctad/internal/models"
	"ctad/internal/providers"
	"ctad/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// SdkController is the device-facing surface. Both endpoints take the
// same envelope; app-launch answers with the eligible CTA set, merge
// only acknowledges.
type SdkController struct {
	logger  providers.Logger
	service services.ServingServiceInterface
}

type sdkRequest struct {
	TenantID string                `json:"tenantId"`
	UserID   string                `json:"userId"`
	Cohorts  []string              `json:"cohorts,omitempty"`
	Delta    *models.DeltaSnapshot `json:"delta,omitempty"`
}

func NewSdkController(logger providers.Logger, service services.ServingServiceInterface) *SdkController {
	return &SdkController{
		logger:  logger,
		service: service,
	}
}

func (sc *SdkController) decode(w http.ResponseWriter, r *http.Request) (*sdkRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload sdkRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}
	if payload.TenantID == "" || payload.UserID == "" {
		http.Error(w, "tenantId and userId are required", http.StatusBadRequest)
		return nil, false
	}
	return &payload, true
}

func (sc *SdkController) AppLaunch(w http.ResponseWriter, r *http.Request) {
	payload, ok := sc.decode(w, r)
	if !ok {
		return
	}

	resp, err := sc.service.AppLaunch(r.Context(), payload.TenantID, payload.UserID, payload.Cohorts, payload.Delta)
	if err != nil {
		sc.fail(w, "app-launch", payload.UserID, err)
		return
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (sc *SdkController) Merge(w http.ResponseWriter, r *http.Request) {
	payload, ok := sc.decode(w, r)
	if !ok {
		return
	}

	if err := sc.service.Merge(r.Context(), payload.TenantID, payload.UserID, payload.Delta); err != nil {
		sc.fail(w, "merge", payload.UserID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (sc *SdkController) fail(w http.ResponseWriter, op, userID string, err error) {
	if errors.Is(err, models.ErrMalformedDelta) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sc.logger.Errorf(providers.TypeServe, "%s failed for user %s: %v", op, userID, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

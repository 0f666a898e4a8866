package controllers

import (
	"fmt"
	json "github.com/goccy/go-json"
	"net/http"
	"time"

	"ctad/internal/services"
)

type HealthController struct {
	cache     services.StaticDataCacheInterface
	startTime time.Time
}

type healthResponse struct {
	Status           string  `json:"status"`
	Uptime           string  `json:"uptime"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	ActiveCtas       int     `json:"active_ctas"`
	PausedCtas       int     `json:"paused_ctas"`
	BehaviourTags    int     `json:"behaviour_tags"`
	CacheLastRefresh string  `json:"cache_last_refresh"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		ActiveCtas:    len(hc.cache.FindAllActiveCTA()),
		PausedCtas:    len(hc.cache.FindAllPausedCTA()),
		BehaviourTags: len(hc.cache.FindAllBehaviourTags()),
	}
	if last := hc.cache.LastRefresh(); !last.IsZero() {
		resp.CacheLastRefresh = last.UTC().Format(time.RFC3339)
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

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(cache services.StaticDataCacheInterface) *HealthController {
	return &HealthController{
		cache:     cache,
		startTime: time.Now(),
	}
}

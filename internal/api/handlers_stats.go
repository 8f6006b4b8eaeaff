package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleInferenceStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "inference stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"summary_model": s.cfg.SummaryModel,
		"qa_model":      s.cfg.QAModel,
		"stats":         s.stats.Snapshot(),
	})
}

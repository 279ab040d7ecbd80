package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
	"github.com/harborview-realty/neighborhood-cli/internal/refdata"
	"github.com/harborview-realty/neighborhood-cli/internal/scorer"
	"github.com/harborview-realty/neighborhood-cli/internal/store"
)

type handler struct {
	engine *scorer.Engine
	data   *refdata.Store
	leads  store.Store
}

func (h *handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) Questions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"questions": h.data.Questions()})
}

func (h *handler) Areas(w http.ResponseWriter, r *http.Request) {
	county := r.URL.Query().Get("county")
	areas := h.data.Areas()
	if county != "" {
		var filtered []model.Area
		for _, a := range areas {
			if a.County == county {
				filtered = append(filtered, a)
			}
		}
		areas = filtered
	}
	writeJSON(w, http.StatusOK, map[string]any{"areas": areas})
}

// scoreRequest is the quiz submission payload.
type scoreRequest struct {
	Answers []model.Answer `json:"answers"`
	County  string         `json:"county,omitempty"`
}

// scoreResponse returns the full ranked list; the site slices to top-N.
type scoreResponse struct {
	Results  []model.ScoredArea `json:"results"`
	TopCount int                `json:"top_count"`
	CRMTags  string             `json:"crm_tags,omitempty"`
}

func (h *handler) Score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results := h.engine.ScoreAreas(req.Answers, req.County)
	resp := scoreResponse{Results: results, TopCount: h.engine.TopCount()}
	if len(results) > 0 {
		resp.CRMTags = h.engine.CRMTags(req.Answers, results[0])
	}
	writeJSON(w, http.StatusOK, resp)
}

// leadRequest is the lead-capture payload. Answers are optional; when
// present the lead is tagged from a fresh scoring pass.
type leadRequest struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone,omitempty"`
	County  string         `json:"county,omitempty"`
	Source  string         `json:"source,omitempty"`
	Answers []model.Answer `json:"answers,omitempty"`
}

func (h *handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	lead := model.Lead{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		County: req.County,
		Source: req.Source,
	}
	if lead.Source == "" {
		lead.Source = model.LeadSourceQuiz
	}
	if len(req.Answers) > 0 {
		if results := h.engine.ScoreAreas(req.Answers, req.County); len(results) > 0 {
			lead.TopMatch = results[0].DisplayName
			lead.CRMTags = h.engine.CRMTags(req.Answers, results[0])
		}
	}

	created, err := h.leads.CreateLead(r.Context(), lead)
	if err != nil {
		zap.L().Error("api: create lead", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save lead")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

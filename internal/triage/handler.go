package triage

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type TurnRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type TurnResponse struct {
	SessionID      string `json:"session_id"`
	Message        string `json:"message"`
	IsEmergency    bool   `json:"is_emergency"`
	ShouldContinue bool   `json:"should_continue"`
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	id, prompt, err := h.svc.StartSession(r.Context())
	if err != nil {
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, StartSessionResponse{SessionID: id, Message: prompt})
}

func (h *Handler) SubmitTurn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" || req.Message == "" {
		http.Error(w, "session_id and message are required", http.StatusBadRequest)
		return
	}

	result, err := h.svc.SubmitTurn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, TurnResponse{
		SessionID:      req.SessionID,
		Message:        result.Prompt,
		IsEmergency:    result.IsEmergency,
		ShouldContinue: result.ShouldContinue,
	})
}

func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	assessment, err := h.svc.GetAssessment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, assessment)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	pdf, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="triage_report_`+id+`.pdf"`)
	w.Write(pdf)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotReady):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrSessionClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "Processing failed: "+err.Error(), http.StatusInternalServerError)
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/session/start", h.StartSession)
	r.Post("/session/chat", h.SubmitTurn)
	r.Get("/session/{sessionID}/assessment", h.GetAssessment)
	r.Get("/session/{sessionID}/report", h.GetReport)
}

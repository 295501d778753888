package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"rebatescout/internal/i18n"
	"rebatescout/internal/model"
	"rebatescout/internal/service"
	"rebatescout/internal/wizard"
)

// AssessmentHandler handles the wizard endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentSvc: assessmentSvc}
}

// StartRequest is the request body for starting (or resuming) a session
type StartRequest struct {
	SessionID string `json:"sessionId,omitempty"`
}

// AnswerRequest carries one raw answer value
type AnswerRequest struct {
	Value string `json:"value"`
}

// SubmitRequest is the contact-capture form
type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Consent bool   `json:"consent"`
}

type questionPayload struct {
	ID          model.FieldKey `json:"id"`
	Kind        string         `json:"kind"`
	Title       string         `json:"title"`
	Help        string         `json:"help,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Options     []model.Option `json:"options,omitempty"`
}

type stateResponse struct {
	SessionID  string           `json:"sessionId"`
	State      string           `json:"state"`
	Step       int              `json:"step"`
	TotalSteps int              `json:"totalSteps"`
	Progress   float64          `json:"progress"`
	Question   *questionPayload `json:"question,omitempty"`
	Answers    model.AnswerSet  `json:"answers"`
}

// Start handles POST /v1/assessments
func (h *AssessmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	// an empty body means a new session; a body that is present but does
	// not decode is the caller's error
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.assessmentSvc.Start(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toStateResponse(view, langFrom(r)))
}

// Get handles GET /v1/assessments/{sessionId}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessmentSvc.View(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(view, langFrom(r)))
}

// Answer handles PUT /v1/assessments/{sessionId}/answers/{questionId}
func (h *AssessmentHandler) Answer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.assessmentSvc.Answer(r.Context(), vars["sessionId"], model.FieldKey(vars["questionId"]), req.Value)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(view, langFrom(r)))
}

// Advance handles POST /v1/assessments/{sessionId}/advance
func (h *AssessmentHandler) Advance(w http.ResponseWriter, r *http.Request) {
	view, advanced, err := h.assessmentSvc.Advance(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !advanced {
		writeError(w, http.StatusUnprocessableEntity, "current answer does not pass validation")
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(view, langFrom(r)))
}

// Retreat handles POST /v1/assessments/{sessionId}/retreat
func (h *AssessmentHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	view, exited, err := h.assessmentSvc.Retreat(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := struct {
		Exited bool `json:"exited"`
		stateResponse
	}{Exited: exited, stateResponse: *toStateResponse(view, langFrom(r))}
	writeJSON(w, http.StatusOK, resp)
}

// Save handles POST /v1/assessments/{sessionId}/save
func (h *AssessmentHandler) Save(w http.ResponseWriter, r *http.Request) {
	fallback, err := h.assessmentSvc.Save(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"saved":     true,
		"encrypted": !fallback,
	})
}

// Submit handles POST /v1/assessments/{sessionId}/submit
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact := model.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Consent: req.Consent,
	}

	result, err := h.assessmentSvc.Submit(r.Context(), mux.Vars(r)["sessionId"], contact, r.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, wizard.ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, "too many submissions, try again later")
		case errors.Is(err, wizard.ErrInvalidContact), errors.Is(err, wizard.ErrNotContactStep):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	lang := langFrom(r)
	recs := make([]model.Recommendation, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		recs = append(recs, model.Recommendation{
			Title:       i18n.Translate(lang, rec.Title),
			Description: i18n.Translate(lang, rec.Description),
		})
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data":            result.Data,
		"estimate":        result.Estimate,
		"recommendations": recs,
	})
}

// Reset handles DELETE /v1/assessments/{sessionId}
func (h *AssessmentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.assessmentSvc.Reset(r.Context(), mux.Vars(r)["sessionId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toStateResponse(view *service.StateView, lang i18n.Lang) *stateResponse {
	resp := &stateResponse{
		SessionID:  view.SessionID,
		State:      string(view.State),
		Step:       view.Step,
		TotalSteps: view.TotalSteps,
		Progress:   view.Progress,
		Answers:    view.Answers,
	}
	if q := view.Question; q != nil {
		resp.Question = &questionPayload{
			ID:          q.ID,
			Kind:        string(q.Kind),
			Title:       i18n.Translate(lang, q.TitleKey),
			Placeholder: q.Placeholder,
			Options:     q.Options,
		}
		if q.HelpKey != "" {
			resp.Question.Help = i18n.Translate(lang, q.HelpKey)
		}
	}
	return resp
}

func langFrom(r *http.Request) i18n.Lang {
	if r.URL.Query().Get("lang") == "fr" {
		return i18n.LangFR
	}
	return i18n.LangEN
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

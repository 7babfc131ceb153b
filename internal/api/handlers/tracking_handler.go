package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/markdave123-py/artintx/internal/services"
)

type MoodHandler struct {
	moods *services.MoodService
}

func NewMoodHandler(moods *services.MoodService) *MoodHandler {
	return &MoodHandler{moods: moods}
}

func (h *MoodHandler) Log(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.MoodInput
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := h.moods.Log(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Mood logged!", "id": id})
}

func (h *MoodHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	logs, err := h.moods.History(r.Context(), userID, queryInt(r, "days"))
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *MoodHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	stats, err := h.moods.Stats(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type AssessmentHandler struct {
	assessments *services.AssessmentService
}

func NewAssessmentHandler(assessments *services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments}
}

// phq9Request keeps each answer as a pointer so an omitted question is distinguishable from a 0.
type phq9Request struct {
	Q1 *int `json:"q1"`
	Q2 *int `json:"q2"`
	Q3 *int `json:"q3"`
	Q4 *int `json:"q4"`
	Q5 *int `json:"q5"`
	Q6 *int `json:"q6"`
	Q7 *int `json:"q7"`
	Q8 *int `json:"q8"`
	Q9 *int `json:"q9"`
}

// answers returns nil when any question is missing.
func (p phq9Request) answers() []int {
	out := make([]int, 0, 9)
	for _, q := range []*int{p.Q1, p.Q2, p.Q3, p.Q4, p.Q5, p.Q6, p.Q7, p.Q8, p.Q9} {
		if q == nil {
			return nil
		}
		out = append(out, *q)
	}
	return out
}

func (h *AssessmentHandler) SubmitPHQ9(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req phq9Request
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := h.assessments.SubmitPHQ9(r.Context(), userID, req.answers())
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":          a.ID,
		"total_score": a.TotalScore,
		"severity":    a.Severity,
		"message":     "Assessment submitted.",
	})
}

func (h *AssessmentHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	history, err := h.assessments.History(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, history)
}

type ReminderHandler struct {
	reminders *services.ReminderService
}

func NewReminderHandler(reminders *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	list, err := h.reminders.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.ReminderInput
	if !decodeJSON(w, r, &req) {
		return
	}
	rem, err := h.reminders.Create(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": rem.ID, "message": "Reminder set!"})
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.reminders.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reminder removed."})
}

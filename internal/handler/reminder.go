package handler

import (
	"net/http"
	"time"

	"github.com/nzoschke/organizer/internal/ctxkeys"
	"github.com/nzoschke/organizer/internal/model"
	"github.com/nzoschke/organizer/internal/service"
)

// reminderResponse is the client shape of a reminder: due_date becomes
// dueDate and status is also exposed as the completed boolean.
type reminderResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     time.Time  `json:"dueDate"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newReminderResponse(r *model.Reminder) reminderResponse {
	return reminderResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Category:    r.Category,
		Status:      r.Status,
		Completed:   r.IsCompleted(),
		CompletedAt: r.CompletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type ReminderHandler struct {
	reminderService *service.ReminderService
}

func NewReminderHandler(reminderService *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
	}
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	reminders, err := h.reminderService.Reminders(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		RenderError(w, r, err)
		return
	}

	resp := make([]reminderResponse, 0, len(reminders))
	for _, reminder := range reminders {
		resp = append(resp, newReminderResponse(reminder))
	}

	Render(w, r, http.StatusOK, resp)
}

func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	reminder, err := h.reminderService.ByID(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, newReminderResponse(reminder))
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var in service.ReminderInput
	err := decode(r, &in, false)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	reminder, err := h.reminderService.Create(r.Context(), userID, in)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusCreated, newReminderResponse(reminder))
}

func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var in service.ReminderInput
	err := decode(r, &in, false)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	reminder, err := h.reminderService.Update(r.Context(), userID, r.PathValue("id"), in)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, newReminderResponse(reminder))
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.reminderService.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		RenderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ReminderHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	reminder, err := h.reminderService.Toggle(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, newReminderResponse(reminder))
}

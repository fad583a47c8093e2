package handler

import (
	"net/http"

	"github.com/nzoschke/organizer/internal/ctxkeys"
	"github.com/nzoschke/organizer/internal/model"
	"github.com/nzoschke/organizer/internal/service"
	"github.com/nzoschke/organizer/internal/validation"
)

type HabitHandler struct {
	habitService *service.HabitService
}

func NewHabitHandler(habitService *service.HabitService) *HabitHandler {
	return &HabitHandler{
		habitService: habitService,
	}
}

// logRequest is the body of the log and skip endpoints. Every field is
// optional.
type logRequest struct {
	Date      string  `json:"date"`
	Completed Flag    `json:"completed"`
	Notes     *string `json:"notes"`
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	views, err := h.habitService.Views(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, views)
}

func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	view, err := h.habitService.View(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, view)
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var in service.HabitInput
	err := decode(r, &in, false)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	habit, err := h.habitService.Create(r.Context(), userID, in)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusCreated, habit)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var in service.HabitInput
	err := decode(r, &in, false)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	habit, err := h.habitService.Update(r.Context(), userID, r.PathValue("id"), in)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, habit)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.habitService.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		RenderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HabitHandler) Logs(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	since, err := validation.ValidateDate("since", r.URL.Query().Get("since"))
	if err != nil {
		RenderError(w, r, fieldError(err))
		return
	}

	logs, err := h.habitService.Logs(r.Context(), userID, r.PathValue("id"), since)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, logs)
}

// Log toggles completion for a day. Without "completed" the stored value
// for that day is inverted.
func (h *HabitHandler) Log(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	req, date, err := decodeLogRequest(r)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	log, err := h.habitService.ToggleHabit(r.Context(), userID, r.PathValue("id"), date, req.Completed.Ptr(), req.Notes)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, log)
}

func (h *HabitHandler) Skip(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	req, date, err := decodeLogRequest(r)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	log, err := h.habitService.Skip(r.Context(), userID, r.PathValue("id"), date, req.Notes)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, log)
}

func decodeLogRequest(r *http.Request) (logRequest, model.Date, error) {
	var req logRequest
	err := decode(r, &req, true)
	if err != nil {
		return req, model.Date{}, err
	}

	date, err := validation.ValidateDate("date", req.Date)
	if err != nil {
		return req, model.Date{}, fieldError(err)
	}

	return req, date, nil
}

func fieldError(err error) error {
	if fe, ok := err.(*validation.FieldError); ok {
		return &service.ValidationError{Field: fe.Field, Message: fe.Message}
	}
	return err
}

package handler

import (
	"net/http"

	"github.com/nzoschke/organizer/internal/ctxkeys"
	"github.com/nzoschke/organizer/internal/service"
)

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	notes, err := h.noteService.Notes(r.Context(), userID)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	note, err := h.noteService.ByID(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, note)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var in service.NoteInput
	err := decode(r, &in, false)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	note, err := h.noteService.Create(r.Context(), userID, in)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusCreated, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var in service.NoteInput
	err := decode(r, &in, false)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	note, err := h.noteService.Update(r.Context(), userID, r.PathValue("id"), in)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.noteService.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		RenderError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

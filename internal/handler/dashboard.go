package handler

import (
	"net/http"

	"github.com/nzoschke/organizer/internal/ctxkeys"
	"github.com/nzoschke/organizer/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	exportService    *service.ExportService
}

func NewDashboardHandler(dashboardService *service.DashboardService, exportService *service.ExportService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		exportService:    exportService,
	}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	summary, err := h.dashboardService.Summary(r.Context(), userID)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusOK, summary)
}

func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	export, err := h.exportService.Export(r.Context(), userID)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	Render(w, r, http.StatusCreated, export)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ecommerce-cloud/backend/internal/services"
)

type ReportAPI interface {
	Sales(ctx context.Context, start, end time.Time) (*services.SalesReport, error)
}

type ReportHandler struct {
	reports ReportAPI
}

func NewReportHandler(reports ReportAPI) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// parseReportTime accepts RFC 3339 timestamps or plain dates. Empty means unset.
func parseReportTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// SalesReport aggregates orders in a time window
// @Summary Sales report
// @Description Revenue, order count, average order value and quantity per product between two dates (default last 30 days)
// @Tags Reports
// @Produce json
// @Param startDate query string false "Window start (RFC 3339 or YYYY-MM-DD)"
// @Param endDate query string false "Window end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} services.SalesReport
// @Failure 400 {object} services.ErrorResponse
// @Router /relatorio-vendas [get]
func (h *ReportHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	start, err := parseReportTime(r.URL.Query().Get("startDate"))
	if err != nil {
		services.SendErrorResponse(w, "Invalid startDate", http.StatusBadRequest, nil)
		return
	}
	end, err := parseReportTime(r.URL.Query().Get("endDate"))
	if err != nil {
		services.SendErrorResponse(w, "Invalid endDate", http.StatusBadRequest, nil)
		return
	}

	report, err := h.reports.Sales(r.Context(), start, end)
	if err != nil {
		internalError(w, "REPORT", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

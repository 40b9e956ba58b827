package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportingService is the portfolio reporting API consumed by the HTTP layer.
type ReportingService interface {
	Indicators(ctx context.Context) (models.PortfolioSummary, error)
	CaptureSnapshot(ctx context.Context, now time.Time) (models.IndicatorSnapshot, error)
	LatestSnapshot(ctx context.Context) (models.IndicatorSnapshot, error)
	WriteHerdWorkbook(ctx context.Context, w io.Writer) error
}

// DashboardHandler serves portfolio indicators and exports.
type DashboardHandler struct {
	svc    ReportingService
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc ReportingService, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger, now: time.Now}
}

// Indicators returns the current portfolio summary.
func (h *DashboardHandler) Indicators(c *gin.Context) {
	summary, err := h.svc.Indicators(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CaptureSnapshot stores the current indicators on demand.
func (h *DashboardHandler) CaptureSnapshot(c *gin.Context) {
	snapshot, err := h.svc.CaptureSnapshot(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

// LatestSnapshot returns the most recent stored snapshot.
func (h *DashboardHandler) LatestSnapshot(c *gin.Context) {
	snapshot, err := h.svc.LatestSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// ExportHerd downloads the herd as an xlsx workbook.
func (h *DashboardHandler) ExportHerd(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.WriteHerdWorkbook(c.Request.Context(), &buf); err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("herd_%s.xlsx", h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

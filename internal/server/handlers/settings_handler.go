package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/service/livestock"
)

// SettingsHandler serves the settings record.
type SettingsHandler struct {
	svc    LivestockService
	logger *zap.Logger
}

// NewSettingsHandler constructs the HTTP handler adapter.
func NewSettingsHandler(svc LivestockService, logger *zap.Logger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{svc: svc, logger: logger}
}

// Get returns the settings, creating the defaults on first access.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.svc.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Update overwrites the settings.
func (h *SettingsHandler) Update(c *gin.Context) {
	var in livestock.SettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}

	settings, err := h.svc.UpdateSettings(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

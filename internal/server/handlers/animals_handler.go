package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/domain/models"
	"github.com/mamadbah2/herdledger/internal/service/livestock"
)

// LivestockService is the herd bookkeeping API consumed by the HTTP layer.
type LivestockService interface {
	ListAnimals(ctx context.Context, q livestock.ListQuery) (models.AnimalList, error)
	GetAnimal(ctx context.Context, id string) (models.AnimalDetails, error)
	CreateAnimal(ctx context.Context, in livestock.AnimalInput) (models.Animal, error)
	UpdateAnimal(ctx context.Context, id string, in livestock.AnimalInput) (models.Animal, error)
	DeleteAnimal(ctx context.Context, id string) error
	ListCosts(ctx context.Context, animalID string) ([]models.Cost, error)
	AddCost(ctx context.Context, animalID string, in livestock.CostInput) (models.Cost, error)
	DeleteCost(ctx context.Context, animalID, costID string) error
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, in livestock.SettingsInput) (models.Settings, error)
}

// AnimalHandler serves animal and cost records.
type AnimalHandler struct {
	svc    LivestockService
	logger *zap.Logger
}

// NewAnimalHandler constructs the HTTP handler adapter.
func NewAnimalHandler(svc LivestockService, logger *zap.Logger) *AnimalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnimalHandler{svc: svc, logger: logger}
}

// List returns a filtered page of animals.
func (h *AnimalHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	list, err := h.svc.ListAnimals(c.Request.Context(), livestock.ListQuery{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Get returns one animal with its costs and metrics.
func (h *AnimalHandler) Get(c *gin.Context) {
	details, err := h.svc.GetAnimal(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Create registers a new animal.
func (h *AnimalHandler) Create(c *gin.Context) {
	var in livestock.AnimalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}

	animal, err := h.svc.CreateAnimal(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, animal)
}

// Update replaces an animal record.
func (h *AnimalHandler) Update(c *gin.Context) {
	var in livestock.AnimalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}

	animal, err := h.svc.UpdateAnimal(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, animal)
}

// Delete removes an animal and its costs.
func (h *AnimalHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteAnimal(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "animal deleted"})
}

// ListCosts returns the costs of an animal.
func (h *AnimalHandler) ListCosts(c *gin.Context) {
	costs, err := h.svc.ListCosts(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, costs)
}

// AddCost records a cost against an animal.
func (h *AnimalHandler) AddCost(c *gin.Context) {
	var in livestock.CostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}

	cost, err := h.svc.AddCost(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cost)
}

// DeleteCost removes one cost of an animal.
func (h *AnimalHandler) DeleteCost(c *gin.Context) {
	if err := h.svc.DeleteCost(c.Request.Context(), c.Param("id"), c.Param("costId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cost deleted"})
}

// queryInt reads an optional integer query parameter; absent means zero.
func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError(key, "must be an integer")
	}
	return v, nil
}

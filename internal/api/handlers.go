package api

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"foncier/server/internal/domain"
	"foncier/server/internal/filter"
	"foncier/server/internal/metrics"
	"foncier/server/internal/store"
)

// Refresher triggers a full dataset reload; implemented by
// scheduler.Scheduler.
type Refresher interface {
	RunOnce(ctx context.Context)
}

// Handler serves the metrics API from the in-memory dataset store.
type Handler struct {
	store       *store.Store
	engine      *metrics.Engine
	refresher   Refresher
	defaultYear int
	logger      *logrus.Logger
}

// MetricsQuery carries the filter criteria of one metrics request. City
// and department are mutually exclusive.
type MetricsQuery struct {
	Year         *int     `form:"year"`
	MinAmount    *float64 `form:"min_amount"`
	MaxAmount    *float64 `form:"max_amount"`
	PropertyType string   `form:"property_type"`
	City         string   `form:"city"`
	Department   string   `form:"department"`
}

// NewHandler creates the API handler.
func NewHandler(st *store.Store, engine *metrics.Engine, refresher Refresher, defaultYear int, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		store:       st,
		engine:      engine,
		refresher:   refresher,
		defaultYear: defaultYear,
		logger:      logger,
	}
}

// GetMetrics filters the selected year and computes the statistics
// record. An empty selection still yields a well-formed zeroed metric;
// only an aggregation fault produces an error response.
func (h *Handler) GetMetrics(c *gin.Context) {
	var query MetricsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.WithError(err).Error("Failed to parse metrics query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	filters, err := query.toFilters()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matched := filter.Apply(h.store.Snapshot(), filters, h.defaultYear)

	metric, err := h.engine.Compute(c.Request.Context(), matched)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute metrics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute metrics"})
		return
	}

	c.JSON(http.StatusOK, metric)
}

// GetYears lists the loaded dataset years and their record counts.
func (h *Handler) GetYears(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Summary())
}

// GetHealth reports service liveness and dataset freshness.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"updated_at": h.store.UpdatedAt(),
	})
}

// Refresh kicks an asynchronous full dataset reload.
func (h *Handler) Refresh(c *gin.Context) {
	go h.refresher.RunOnce(context.Background())

	c.JSON(http.StatusOK, gin.H{
		"status": "Dataset refresh started",
	})
}

func (q MetricsQuery) toFilters() (filter.UserFilters, error) {
	filters := filter.UserFilters{
		Year:      q.Year,
		MinAmount: q.MinAmount,
		MaxAmount: q.MaxAmount,
	}
	if q.PropertyType != "" {
		propertyType := q.PropertyType
		filters.PropertyType = &propertyType
	}

	if q.City != "" && q.Department != "" {
		return filter.UserFilters{}, errors.New("city and department filters are mutually exclusive")
	}

	switch {
	case q.City != "":
		city, ok := domain.NewCity(q.City)
		if !ok {
			return filter.UserFilters{}, errors.New("invalid city name")
		}
		geo := filter.ByCity(city)
		filters.Geo = &geo
	case q.Department != "":
		department, ok := domain.NewDepartmentCode(q.Department)
		if !ok {
			return filter.UserFilters{}, errors.New("invalid department code")
		}
		geo := filter.ByDepartment(department)
		filters.Geo = &geo
	}

	return filters, nil
}

// Package api serves field usage results over HTTP.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	infraerrors "github.com/jonesrussell/north-cloud/field-usage/infrastructure/errors"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/field-usage/internal/fieldusage"
	"github.com/jonesrussell/north-cloud/field-usage/internal/metrics"
	"github.com/jonesrussell/north-cloud/field-usage/internal/render"
)

// Handler handles HTTP requests for the field usage API. Every request
// takes a fresh snapshot of the cluster.
type Handler struct {
	cluster fieldusage.Cluster
	metrics *metrics.FieldMetrics
	log     logger.Logger
	opts    []fieldusage.Option
}

// NewHandler creates a new API handler. fieldMetrics may be nil.
func NewHandler(
	cluster fieldusage.Cluster,
	fieldMetrics *metrics.FieldMetrics,
	log logger.Logger,
	opts ...fieldusage.Option,
) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		cluster: cluster,
		metrics: fieldMetrics,
		log:     log,
		opts:    append([]fieldusage.Option{fieldusage.WithLogger(log)}, opts...),
	}
}

// views aggregates the pattern in the path. On failure it writes the error
// response and returns nil.
func (h *Handler) views(c *gin.Context) *fieldusage.Views {
	pattern := c.Param("pattern")
	ctx := c.Request.Context()

	agg, err := fieldusage.New(ctx, h.cluster, pattern, h.opts...)
	if err != nil {
		h.fail(c, pattern, err)
		return nil
	}
	views, err := agg.Finalize(ctx)
	if err != nil {
		h.fail(c, pattern, err)
		return nil
	}

	if h.metrics != nil {
		h.metrics.SetViews(pattern, render.AllIndices, views)
	}
	return views
}

func (h *Handler) fail(c *gin.Context, pattern string, err error) {
	status := statusFor(err)
	h.log.Error("Failed to aggregate field usage",
		logger.String("pattern", pattern),
		logger.Int("status", status),
		logger.Error(err),
	)
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusFor maps aggregation failures onto HTTP statuses. A missing index
// stays a 404; any other cluster failure is a bad gateway.
func statusFor(err error) int {
	if code, ok := infraerrors.StatusCode(err); ok && code == http.StatusNotFound {
		return http.StatusNotFound
	}
	if errors.Is(err, fieldusage.ErrUpstreamQuery) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// GetReport handles GET /api/v1/usage/:pattern/report
func (h *Handler) GetReport(c *gin.Context) {
	if views := h.views(c); views != nil {
		c.JSON(http.StatusOK, views.Report())
	}
}

// GetPerIndexReport handles GET /api/v1/usage/:pattern/per-index
func (h *Handler) GetPerIndexReport(c *gin.Context) {
	if views := h.views(c); views != nil {
		c.JSON(http.StatusOK, views.PerIndexReport())
	}
}

// GetResults handles GET /api/v1/usage/:pattern/results
func (h *Handler) GetResults(c *gin.Context) {
	if views := h.views(c); views != nil {
		c.JSON(http.StatusOK, views.Results())
	}
}

// GetResultsByIndex handles GET /api/v1/usage/:pattern/results-by-index
func (h *Handler) GetResultsByIndex(c *gin.Context) {
	if views := h.views(c); views != nil {
		c.JSON(http.StatusOK, groups(views.ResultsByIndex()))
	}
}

// ListIndices handles GET /api/v1/usage/:pattern/indices
func (h *Handler) ListIndices(c *gin.Context) {
	pattern := c.Param("pattern")

	names, err := h.cluster.ListIndices(c.Request.Context(), pattern)
	if err != nil {
		h.fail(c, pattern, &fieldusage.UpstreamQueryError{Op: "list indices", Target: pattern, Err: err})
		return
	}
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"pattern": pattern,
		"indices": names,
		"count":   len(names),
	})
}

// groups encodes as an object keyed by group name, in slice order.
type groups []fieldusage.Group

func (g groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Name)
		if err != nil {
			return nil, err
		}
		counts, err := group.Counts.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", group.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(counts)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

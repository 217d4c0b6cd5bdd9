package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitedash/sitedash/internal/content"
	"github.com/sitedash/sitedash/internal/content/store"
	"github.com/sitedash/sitedash/pkg/logger"
	"github.com/sitedash/sitedash/pkg/metrics"
)

// SourceHeader tells clients which tier answered a read.
const SourceHeader = "X-Content-Source"

// ComponentsHandler serves the dashboard content document.
type ComponentsHandler struct {
	store *store.Store
}

func NewComponentsHandler(s *store.Store) *ComponentsHandler {
	return &ComponentsHandler{store: s}
}

// Register mounts GET and POST /components on rg (normally the /api group).
func (h *ComponentsHandler) Register(rg gin.IRoutes) {
	rg.GET("/components", h.GetComponents)
	rg.POST("/components", h.SaveComponents)
}

// GetComponents returns the content document. When the database is down the
// cached copy is served; with nothing cached the request fails.
func (h *ComponentsHandler) GetComponents(c *gin.Context) {
	res, err := h.store.Fetch(c.Request.Context())
	if err != nil {
		logger.Errorf("get components: %v", err)
		metrics.ContentFetches.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch component data", "message": err.Error()})
		return
	}
	if res.Source == store.SourceDefault && res.RemoteErr != nil {
		logger.Errorf("get components: %v", res.RemoteErr)
		metrics.ContentFetches.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch component data", "message": res.RemoteErr.Error()})
		return
	}
	metrics.ContentFetches.WithLabelValues(string(res.Source)).Inc()
	c.Header(SourceHeader, string(res.Source))
	c.JSON(http.StatusOK, res.Document)
}

// SaveComponents validates and upserts the posted document.
func (h *ComponentsHandler) SaveComponents(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.reject(c, content.Malformed(err))
		return
	}
	doc, err := content.Decode(raw)
	var verr *content.ValidationError
	if errors.As(err, &verr) {
		h.reject(c, verr)
		return
	}

	res, err := h.store.Save(c.Request.Context(), doc)
	switch {
	case errors.As(err, &verr):
		h.reject(c, verr)
		return
	case err != nil:
		logger.Errorf("save components: %v", err)
		metrics.ContentSaves.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save component data", "message": err.Error()})
		return
	case res.LocalOnly:
		logger.Errorf("save components: database write failed, payload kept in cache only: %v", res.RemoteErr)
		metrics.ContentSaves.WithLabelValues("local_only").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save component data", "message": res.RemoteErr.Error()})
		return
	}
	metrics.ContentSaves.WithLabelValues("saved").Inc()
	c.JSON(http.StatusOK, res.Outcome)
}

func (h *ComponentsHandler) reject(c *gin.Context, verr *content.ValidationError) {
	code := content.CodeName(verr)
	metrics.ValidationFailures.WithLabelValues(code).Inc()
	metrics.ContentSaves.WithLabelValues("invalid").Inc()
	body := gin.H{"error": verr.Message, "code": code}
	if verr.Field != "" {
		body["field"] = verr.Field
	}
	c.JSON(http.StatusBadRequest, body)
}

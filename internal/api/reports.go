package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/msrikanth38/90s-jar/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Reports.Stats(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to compute stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) exportData(c *gin.Context) {
	snap, err := h.svc.Reports.Export(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to export data", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// importData replaces the database with the posted snapshot.
// ?scope=inventory restores only the inventory table.
func (h *Handler) importData(c *gin.Context) {
	var payload service.SnapshotPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.badRequest(c, err)
		return
	}

	counts, err := h.svc.Reports.Import(c.Request.Context(), payload, c.Query("scope"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSnapshot) {
			h.badRequest(c, err)
			return
		}
		h.serverError(c, "Failed to import data", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "imported": counts})
}

func (h *Handler) getSettings(c *gin.Context) {
	settings, err := h.svc.Settings.GetSettings(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to load settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) updateSettings(c *gin.Context) {
	var values map[string]json.RawMessage
	if err := c.ShouldBindJSON(&values); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.svc.Settings.UpdateSettings(c.Request.Context(), values); err != nil {
		h.serverError(c, "Failed to save settings", err)
		return
	}
	ok(c)
}

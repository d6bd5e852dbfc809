package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"homeroom/internal/schedule"
)

// Slots lists the configured period table so clients can build editors.
func (h *Handler) Slots(c *gin.Context) {
	type slotView struct {
		Name  string `json:"name"`
		Start string `json:"start"`
	}
	var out []slotView
	for _, s := range h.eval.Slots() {
		out = append(out, slotView{
			Name:  s.Name,
			Start: time.Date(0, 1, 1, s.Start/60, s.Start%60, 0, 0, time.UTC).Format("15:04"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"slots": out, "window_minutes": int(h.cfg.SlotWindow.Minutes())})
}

// GetTemplate returns the saved directives for (day, slot).
func (h *Handler) GetTemplate(c *gin.Context) {
	day, slot, ok := h.templateKey(c)
	if !ok {
		return
	}
	items, err := h.state.Template(c.Request.Context(), day, slot)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if items == nil {
		items = []schedule.Directive{}
	}
	c.JSON(http.StatusOK, gin.H{"day": day, "slot": slot, "items": items})
}

// SaveTemplate replaces the directives for (day, slot) wholesale.
func (h *Handler) SaveTemplate(c *gin.Context) {
	day, slot, ok := h.templateKey(c)
	if !ok {
		return
	}
	var req struct {
		Items []schedule.Directive `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, d := range req.Items {
		if d.StudentID == "" || d.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "directive needs student_id and status"})
			return
		}
	}
	if err := h.state.SaveTemplate(c.Request.Context(), day, slot, req.Items); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(req.Items)})
}

// GetEnabled reports the scheduler enable flag.
func (h *Handler) GetEnabled(c *gin.Context) {
	enabled, err := h.state.Enabled(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

// SetEnabled toggles the scheduler enable flag.
func (h *Handler) SetEnabled(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.state.SetEnabled(c.Request.Context(), *req.Enabled); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled})
}

// Apply is the staff manual apply: bypasses the time window and the
// application lock, but still refuses while the scheduler is disabled.
func (h *Handler) Apply(c *gin.Context) {
	var req struct {
		Day  string `json:"day" binding:"required"`
		Slot string `json:"slot" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, ok := schedule.ParseDay(req.Day)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown day"})
		return
	}
	if !h.eval.HasSlot(req.Slot) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown slot"})
		return
	}

	rep, err := h.engine.Apply(c.Request.Context(), day, req.Slot)
	switch {
	case errors.Is(err, schedule.ErrDisabled):
		c.JSON(http.StatusConflict, gin.H{"error": "scheduler disabled"})
	case errors.Is(err, schedule.ErrNoTemplate):
		c.JSON(http.StatusNotFound, gin.H{"error": "no template saved"})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true, "updated": rep.Updated, "skipped": rep.Skipped})
	}
}

// Tick runs one scheduler pass, driven by the platform cron. Guarded by
// a shared secret rather than a staff token.
func (h *Handler) Tick(c *gin.Context) {
	if h.cfg.CronSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "CRON_SECRET not configured"})
		return
	}
	if c.GetHeader("X-Cron-Secret") != h.cfg.CronSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bad cron secret"})
		return
	}

	now := time.Now()
	var req struct {
		Now string `json:"now"`
	}
	if err := c.ShouldBindJSON(&req); err == nil && req.Now != "" {
		parsed, err := time.Parse(time.RFC3339, req.Now)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "now must be RFC3339"})
			return
		}
		now = parsed
	}

	res, err := h.sched.Tick(c.Request.Context(), now)
	switch {
	case errors.Is(err, schedule.ErrNoTemplate):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, res)
	}
}

func (h *Handler) templateKey(c *gin.Context) (schedule.Day, string, bool) {
	day, ok := schedule.ParseDay(c.Param("day"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown day"})
		return "", "", false
	}
	slot := c.Param("slot")
	if !h.eval.HasSlot(slot) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown slot"})
		return "", "", false
	}
	return day, slot, true
}

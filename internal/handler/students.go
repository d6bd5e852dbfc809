package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeroom/internal/student"
)

// ListStudents returns every record ordered by student number.
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if students == nil {
		students = []student.Student{}
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// GetStudent returns one record or 404.
func (h *Handler) GetStudent(c *gin.Context) {
	st, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if st == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	c.JSON(http.StatusOK, st)
}

// CreateStudent registers a new record; status defaults to present.
func (h *Handler) CreateStudent(c *gin.Context) {
	var req struct {
		ID     string  `json:"id" binding:"required"`
		Name   string  `json:"name" binding:"required"`
		Status string  `json:"status"`
		Reason string  `json:"reason"`
		SeatID *string `json:"seat_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.students.Create(c.Request.Context(), student.Student{
		ID:     req.ID,
		Name:   req.Name,
		Status: req.Status,
		Reason: req.Reason,
		SeatID: req.SeatID,
	})
	if err == student.ErrExists {
		c.JSON(http.StatusConflict, gin.H{"error": "student already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, st)
}

// UpdateStudent is the staff full edit of one record.
func (h *Handler) UpdateStudent(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Status   string  `json:"status" binding:"required"`
		Reason   string  `json:"reason"`
		Approved bool    `json:"approved"`
		SeatID   *string `json:"seat_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	found, err := h.students.Update(c.Request.Context(), student.Student{
		ID:       c.Param("id"),
		Name:     req.Name,
		Status:   req.Status,
		Reason:   req.Reason,
		Approved: req.Approved,
		SeatID:   req.SeatID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	h.changed(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteStudent removes a record.
func (h *Handler) DeleteStudent(c *gin.Context) {
	found, err := h.students.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	h.changed(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ReportStatus is the student self-report: overwrites status/reason and
// clears the approved flag for fresh review.
func (h *Handler) ReportStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	found, err := h.students.Report(c.Request.Context(), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	h.changed(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// BulkStatus applies a staff bulk edit. Unknown ids are counted, not fatal.
func (h *Handler) BulkStatus(c *gin.Context) {
	var req struct {
		Items []struct {
			ID       string `json:"id" binding:"required"`
			Status   string `json:"status" binding:"required"`
			Reason   string `json:"reason"`
			Approved *bool  `json:"approved"`
		} `json:"items" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	updated, skipped := 0, 0
	for _, item := range req.Items {
		found, err := h.students.SetStatus(ctx, item.ID, item.Status, item.Reason)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !found {
			skipped++
			continue
		}
		if item.Approved != nil {
			if _, err := h.students.SetApproved(ctx, item.ID, *item.Approved); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		updated++
	}
	if updated > 0 {
		h.changed(c)
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated, "skipped": skipped})
}

// ApproveStudent flips the staff review flag.
func (h *Handler) ApproveStudent(c *gin.Context) {
	var req struct {
		Approved *bool `json:"approved" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	found, err := h.students.SetApproved(c.Request.Context(), c.Param("id"), *req.Approved)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	h.changed(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Display renders the live occupancy view: seated students plus counts
// per status.
func (h *Handler) Display(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	seats := []student.Student{}
	counts := map[string]int{}
	for _, st := range students {
		counts[st.Status]++
		if st.SeatID != nil && *st.SeatID != "" {
			seats = append(seats, st)
		}
	}
	c.JSON(http.StatusOK, gin.H{"seats": seats, "counts": counts, "total": len(students)})
}

func (h *Handler) changed(c *gin.Context) {
	if err := h.notifier.StudentsChanged(c.Request.Context()); err != nil {
		log.Printf("change notification failed: %v", err)
	}
}

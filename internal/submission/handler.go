package submission

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/internal/auth"
	"github.com/sharath018/accreditation-data-backend/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsInvalidTransition(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func currentUser(c *gin.Context) (auth.User, bool) {
	val, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return auth.User{}, false
	}
	user, ok := val.(auth.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return auth.User{}, false
	}
	return user, true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

type getOrCreateRequest struct {
	TemplateID     uint `json:"template_id" binding:"required"`
	DepartmentID   uint `json:"department_id" binding:"required"`
	AcademicYearID uint `json:"academic_year_id" binding:"required"`
}

// GetOrCreate godoc
// @Summary Open a submission for data entry
// @Description Returns the submission for (template, department, year), creating an empty draft on first use.
// @Tags submissions
// @Accept json
// @Produce json
// @Param request body getOrCreateRequest true "scope"
// @Success 200 {object} DataSubmission
// @Success 201 {object} DataSubmission
// @Router /submissions [post]
func (h *Handler) GetOrCreate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req getOrCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, created, err := h.service.GetOrCreate(req.TemplateID, req.DepartmentID, req.AcademicYearID,
		user, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, sub)
}

func (h *Handler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	f := ListFilter{
		Status: c.Query("status"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if v := c.Query("department_id"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 32)
		f.DepartmentID = uint(id)
	}
	if v := c.Query("template_id"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 32)
		f.TemplateID = uint(id)
	}
	if v := c.Query("academic_year_id"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 32)
		f.YearID = uint(id)
	}

	items, total, err := h.service.List(f, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"submissions": items,
		"total":       total,
		"page":        page,
		"limit":       f.Limit,
	})
}

func (h *Handler) GetByID(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sub, err := h.service.GetByID(id, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) GetRows(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	rows, err := h.service.GetRows(id, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (h *Handler) GetHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	history, err := h.service.GetHistory(id, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

type rowRequest struct {
	SectionIndex int            `json:"section_index"`
	Payload      map[string]any `json:"payload" binding:"required"`
}

// AddRow godoc
// @Summary Append one data row
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path int true "submission id"
// @Param request body rowRequest true "row"
// @Success 201 {object} SubmissionData
// @Router /submissions/{id}/rows [post]
func (h *Handler) AddRow(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req rowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, err := h.service.AddRow(id, req.SectionIndex, req.Payload, user, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *Handler) UpdateRow(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rowID, ok := paramID(c, "rowId")
	if !ok {
		return
	}

	var req rowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, err := h.service.UpdateRow(id, rowID, req.Payload, user, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) DeleteRow(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rowID, ok := paramID(c, "rowId")
	if !ok {
		return
	}

	if err := h.service.DeleteRow(id, rowID, user, middleware.GetIPFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "row deleted"})
}

// ====== workflow ======

func (h *Handler) Submit(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sub, err := h.service.Submit(id, user, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) Approve(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sub, err := h.service.Approve(id, user, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) Reject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a rejection reason is required"})
		return
	}

	sub, err := h.service.Reject(id, req.Reason, user, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) Withdraw(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sub, err := h.service.Withdraw(id, user, middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

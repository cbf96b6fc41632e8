package academicyear

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/middleware"
)

type Handler struct {
	service    *Service
	transition *TransitionService
}

func NewHandler(s *Service, ts *TransitionService) *Handler {
	return &Handler{service: s, transition: ts}
}

func respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type yearRequest struct {
	Name      string `json:"name" binding:"required" example:"2024-25"`
	StartDate string `json:"start_date" binding:"required" example:"2024-06-01"`
	EndDate   string `json:"end_date" binding:"required" example:"2025-05-31"`
	IsCurrent bool   `json:"is_current"`
}

// Create godoc
// @Summary Create an academic year
// @Tags academic-years
// @Accept json
// @Produce json
// @Param request body yearRequest true "year"
// @Success 201 {object} AcademicYear
// @Router /academic-years [post]
func (h *Handler) Create(c *gin.Context) {
	var req yearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	y := AcademicYear{Name: req.Name, StartDate: start, EndDate: end, IsCurrent: req.IsCurrent}
	if err := h.service.Create(&y, c.GetUint("user_id"), middleware.GetIPFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, y)
}

func (h *Handler) GetAll(c *gin.Context) {
	years, err := h.service.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, years)
}

func (h *Handler) GetCurrent(c *gin.Context) {
	y, err := h.service.GetCurrent()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, y)
}

func (h *Handler) SetCurrent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year id"})
		return
	}
	if err := h.service.SetCurrent(uint(id), c.GetUint("user_id"), middleware.GetIPFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "current academic year updated"})
}

type startTransitionRequest struct {
	FromYearID uint `json:"from_year_id" binding:"required"`
	ToYearID   uint `json:"to_year_id" binding:"required"`
}

// StartTransition godoc
// @Summary Start a year-end transition
// @Description Performs guard checks and dispatches processing to the background worker.
// @Tags academic-years
// @Accept json
// @Produce json
// @Param request body startTransitionRequest true "transition"
// @Success 202 {object} AcademicYearTransition
// @Router /academic-years/transitions [post]
func (h *Handler) StartTransition(c *gin.Context) {
	var req startTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.transition.StartTransition(
		c.Request.Context(), req.FromYearID, req.ToYearID,
		c.GetUint("user_id"), middleware.GetIPFromContext(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, t)
}

func (h *Handler) GetTransitions(c *gin.Context) {
	ts, err := h.transition.GetTransitions()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

// GetTransitionByID is the status endpoint the caller polls for progress.
func (h *Handler) GetTransitionByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transition id"})
		return
	}
	t, err := h.transition.GetTransitionByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

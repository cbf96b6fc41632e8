package board

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
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
	case apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type createBoardRequest struct {
	Code string `json:"code" binding:"required" example:"NAAC"`
	Name string `json:"name" binding:"required" example:"National Assessment and Accreditation Council"`
}

// CreateBoard godoc
// @Summary Create an accreditation board
// @Tags boards
// @Accept json
// @Produce json
// @Param request body createBoardRequest true "board"
// @Success 201 {object} Board
// @Router /boards [post]
func (h *Handler) CreateBoard(c *gin.Context) {
	var req createBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b := Board{Code: req.Code, Name: req.Name}
	userID := c.GetUint("user_id")
	if err := h.service.CreateBoard(&b, userID, middleware.GetIPFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBoards(c *gin.Context) {
	boards, err := h.service.GetBoards()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

func (h *Handler) GetBoardByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board id"})
		return
	}
	b, err := h.service.GetBoardByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type createCriteriaRequest struct {
	BoardID      uint   `json:"board_id" binding:"required"`
	Number       int    `json:"number" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

func (h *Handler) CreateCriteria(c *gin.Context) {
	var req createCriteriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cr := Criteria{
		BoardID:      req.BoardID,
		Number:       req.Number,
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}
	userID := c.GetUint("user_id")
	if err := h.service.CreateCriteria(&cr, userID, middleware.GetIPFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cr)
}

func (h *Handler) GetCriteriaByBoard(c *gin.Context) {
	boardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board id"})
		return
	}
	items, err := h.service.GetCriteriaByBoard(uint(boardID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteCriteria(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid criteria id"})
		return
	}
	userID := c.GetUint("user_id")
	if err := h.service.DeleteCriteria(uint(id), userID, middleware.GetIPFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "criteria deleted"})
}

package reports

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/middleware"
)

// 10 MB cap on uploaded workbooks.
const maxImportSize = 10 << 20

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

func queryID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return 0, false
	}
	return uint(v), true
}

func serveFile(c *gin.Context, data []byte, filename, contentType string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// ExportTemplate godoc
// @Summary Export one template's approved data as a spreadsheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param template_id query int true "template id"
// @Param academic_year_id query int true "academic year id"
// @Success 200 {file} binary
// @Router /reports/export/template [get]
func (h *Handler) ExportTemplate(c *gin.Context) {
	templateID, ok := queryID(c, "template_id")
	if !ok {
		return
	}
	yearID, ok := queryID(c, "academic_year_id")
	if !ok {
		return
	}

	data, filename, contentType, err := h.service.ExportTemplate(templateID, yearID,
		c.GetUint("user_id"), middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	serveFile(c, data, filename, contentType)
}

func (h *Handler) ExportBoard(c *gin.Context) {
	boardID, ok := queryID(c, "board_id")
	if !ok {
		return
	}
	yearID, ok := queryID(c, "academic_year_id")
	if !ok {
		return
	}

	data, filename, contentType, err := h.service.ExportBoard(boardID, yearID,
		c.GetUint("user_id"), middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	serveFile(c, data, filename, contentType)
}

func (h *Handler) ExportStatusPDF(c *gin.Context) {
	yearID, ok := queryID(c, "academic_year_id")
	if !ok {
		return
	}

	data, filename, contentType, err := h.service.ExportStatusSummaryPDF(yearID,
		c.GetUint("user_id"), middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	serveFile(c, data, filename, contentType)
}

// ImportTemplate godoc
// @Summary Create or replace a template from an uploaded workbook
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Param criteria_id formData int true "criteria id"
// @Param code formData string true "template code"
// @Param name formData string true "template name"
// @Success 201 {object} template.Template
// @Router /reports/import/template [post]
func (h *Handler) ImportTemplate(c *gin.Context) {
	criteriaID, err := strconv.ParseUint(c.PostForm("criteria_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "criteria_id is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the 10 MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}

	t, err := h.service.ImportTemplate(ImportInput{
		CriteriaID: uint(criteriaID),
		Code:       c.PostForm("code"),
		Name:       c.PostForm("name"),
		File:       data,
	}, c.GetUint("user_id"), middleware.GetIPFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) GetExports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	var yearID uint
	if v := c.Query("academic_year_id"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 32)
		yearID = uint(id)
	}

	recs, total, err := h.service.GetExports(yearID, limit, (page-1)*limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exports": recs, "total": total, "page": page})
}

// DownloadExport re-serves a stored export copy.
func (h *Handler) DownloadExport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export id"})
		return
	}

	rec, path, err := h.service.OpenExport(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+rec.FileName+`"`)
	c.File(path)
}

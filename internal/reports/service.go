package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharath018/accreditation-data-backend/config"
	"github.com/sharath018/accreditation-data-backend/internal/academicyear"
	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/internal/auditlog"
	"github.com/sharath018/accreditation-data-backend/internal/schema"
	"github.com/sharath018/accreditation-data-backend/internal/template"
)

type Service struct {
	Repo         *Repository
	Templates    *template.Service
	TemplateRepo *template.Repository
	Years        *academicyear.Service
	Exporter     *Exporter
	Importer     *Importer
	AuditService auditlog.Service
}

func NewService(r *Repository, ts *template.Service, tr *template.Repository,
	ys *academicyear.Service, as auditlog.Service) *Service {
	return &Service{
		Repo:         r,
		Templates:    ts,
		TemplateRepo: tr,
		Years:        ys,
		Exporter:     NewExporter(),
		Importer:     NewImporter(),
		AuditService: as,
	}
}

// sheetInputFor gathers everything one template's worksheet needs.
func (s *Service) sheetInputFor(t template.Template, year academicyear.AcademicYear) (SheetInput, error) {
	meta, err := schema.ParseMetadata(t.Metadata)
	if err != nil {
		return SheetInput{}, err
	}

	rows, err := s.Repo.ApprovedRows(t.ID, year.ID)
	if err != nil {
		return SheetInput{}, err
	}

	grouped := make([][]map[string]any, len(meta.Sections))
	for _, row := range rows {
		if row.SectionIndex < 0 || row.SectionIndex >= len(meta.Sections) {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal(row.Payload, &payload); err != nil {
			return SheetInput{}, fmt.Errorf("submission %d row %d: %w", row.SubmissionID, row.ID, err)
		}
		grouped[row.SectionIndex] = append(grouped[row.SectionIndex], payload)
	}

	return SheetInput{
		TemplateName:   t.Name,
		TemplateCode:   t.Code,
		CriteriaNumber: t.Criteria.Number,
		BoardCode:      t.Criteria.Board.Code,
		YearName:       year.Name,
		Meta:           meta,
		Rows:           grouped,
	}, nil
}

// ExportTemplate renders the approved data of one template for one year.
func (s *Service) ExportTemplate(templateID, yearID, userID uint, ip string) ([]byte, string, string, error) {
	t, err := s.Templates.GetByID(templateID)
	if err != nil {
		return nil, "", "", err
	}
	year, err := s.Years.GetByID(yearID)
	if err != nil {
		return nil, "", "", err
	}

	in, err := s.sheetInputFor(t, year)
	if err != nil {
		return nil, "", "", err
	}

	data, filename, contentType, err := s.Exporter.ExportTemplate(in)
	if err != nil {
		return nil, "", "", err
	}

	s.storeExport(data, filename, KindTemplateExcel, &t.ID, nil, yearID, userID)
	s.AuditService.LogAction(context.Background(), &userID, nil, "EXPORT_TEMPLATE",
		map[string]interface{}{"template_id": templateID, "academic_year_id": yearID, "file": filename},
		ip, "success")
	return data, filename, contentType, nil
}

// ExportBoard renders every template of a board into one workbook, one sheet
// each.
func (s *Service) ExportBoard(boardID, yearID, userID uint, ip string) ([]byte, string, string, error) {
	templates, err := s.Templates.GetByBoard(boardID)
	if err != nil {
		return nil, "", "", err
	}
	if len(templates) == 0 {
		return nil, "", "", &apperrors.NotFoundError{Resource: "templates for board", ID: boardID}
	}
	year, err := s.Years.GetByID(yearID)
	if err != nil {
		return nil, "", "", err
	}

	boardCode := ""
	sheets := make([]SheetInput, 0, len(templates))
	for _, t := range templates {
		// GetByBoard preloads Criteria but not Board; fetch full once
		full, err := s.Templates.GetByID(t.ID)
		if err != nil {
			return nil, "", "", err
		}
		if boardCode == "" {
			boardCode = full.Criteria.Board.Code
		}
		in, err := s.sheetInputFor(full, year)
		if err != nil {
			return nil, "", "", err
		}
		sheets = append(sheets, in)
	}

	data, filename, contentType, err := s.Exporter.ExportBoard(boardCode, year.Name, sheets)
	if err != nil {
		return nil, "", "", err
	}

	boardRef := boardID
	s.storeExport(data, filename, KindBoardExcel, nil, &boardRef, yearID, userID)
	s.AuditService.LogAction(context.Background(), &userID, nil, "EXPORT_BOARD",
		map[string]interface{}{"board_id": boardID, "academic_year_id": yearID, "file": filename},
		ip, "success")
	return data, filename, contentType, nil
}

// ExportStatusSummaryPDF renders the per-department submission status table.
func (s *Service) ExportStatusSummaryPDF(yearID, userID uint, ip string) ([]byte, string, string, error) {
	year, err := s.Years.GetByID(yearID)
	if err != nil {
		return nil, "", "", err
	}

	summary, err := s.Repo.StatusSummary(yearID)
	if err != nil {
		return nil, "", "", err
	}

	data, filename, contentType, err := renderStatusSummaryPDF(year.Name, summary)
	if err != nil {
		return nil, "", "", err
	}

	s.storeExport(data, filename, KindStatusPDF, nil, nil, yearID, userID)
	s.AuditService.LogAction(context.Background(), &userID, nil, "EXPORT_STATUS_PDF",
		map[string]interface{}{"academic_year_id": yearID, "file": filename}, ip, "success")
	return data, filename, contentType, nil
}

type ImportInput struct {
	CriteriaID uint
	Code       string
	Name       string
	File       []byte
}

// ImportTemplate derives a column schema from the workbook and creates the
// template, or replaces an existing template's schema when it has no
// submissions yet. Either path appends a TemplateVersion.
func (s *Service) ImportTemplate(in ImportInput, userID uint, ip string) (*template.Template, error) {
	in.Code = strings.ToLower(strings.TrimSpace(in.Code))
	if in.Code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "code", Reason: "template code and name are required"},
		}}
	}

	meta, err := s.Importer.Parse(in.File)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	existing, err := s.TemplateRepo.GetByCriteriaAndCode(in.CriteriaID, in.Code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil {
		// replace path: Update carries the submissions guard and version
		t, uerr := s.Templates.Update(existing.ID, template.UpdateInput{
			Name:     in.Name,
			Metadata: raw,
		}, userID, ip)
		if uerr != nil {
			return nil, uerr
		}
		s.AuditService.LogAction(context.Background(), &userID, nil, "TEMPLATE_IMPORTED",
			map[string]interface{}{"template_id": t.ID, "code": t.Code, "sections": len(meta.Sections), "replaced": true},
			ip, "success")
		return t, nil
	}

	t, err := s.Templates.Create(template.CreateInput{
		CriteriaID: in.CriteriaID,
		Code:       in.Code,
		Name:       in.Name,
		Metadata:   raw,
	}, userID, ip)
	if err != nil {
		return nil, err
	}

	s.AuditService.LogAction(context.Background(), &userID, nil, "TEMPLATE_IMPORTED",
		map[string]interface{}{"template_id": t.ID, "code": t.Code, "sections": len(meta.Sections), "replaced": false},
		ip, "success")
	return t, nil
}

func (s *Service) GetExports(yearID uint, limit, offset int) ([]ExportRecord, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.GetExportRecords(yearID, limit, offset)
}

// OpenExport returns the record and absolute path of a stored export file.
func (s *Service) OpenExport(id uint) (ExportRecord, string, error) {
	rec, err := s.Repo.GetExportRecordByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, "", &apperrors.NotFoundError{Resource: "export", ID: id}
	}
	if err != nil {
		return rec, "", err
	}

	path := filepath.Join(config.UploadPath, "exports", rec.StoredName)
	if _, err := os.Stat(path); err != nil {
		return rec, "", &apperrors.NotFoundError{Resource: "export file", ID: id}
	}
	return rec, path, nil
}

// storeExport keeps a copy of the generated file on disk under a uuid name.
// Failures are logged, not propagated: the caller already has the bytes.
func (s *Service) storeExport(data []byte, filename, kind string, templateID, boardID *uint, yearID, userID uint) {
	dir := filepath.Join(config.UploadPath, "exports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("⚠️ export store mkdir failed: %v", err)
		return
	}

	ext := filepath.Ext(filename)
	stored := fmt.Sprintf("%s_%s%s", strings.TrimSuffix(filename, ext), uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(dir, stored), data, 0o644); err != nil {
		log.Printf("⚠️ export store write failed: %v", err)
		return
	}

	rec := ExportRecord{
		Kind:           kind,
		FileName:       filename,
		StoredName:     stored,
		TemplateID:     templateID,
		BoardID:        boardID,
		AcademicYearID: yearID,
		SizeBytes:      int64(len(data)),
		CreatedBy:      userID,
	}
	if err := s.Repo.CreateExportRecord(&rec); err != nil {
		log.Printf("⚠️ export record create failed: %v", err)
	}
}

package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sharath018/accreditation-data-backend/internal/schema"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetInput is everything one worksheet needs: the template identity, its
// column schema and the approved rows grouped by section index.
type SheetInput struct {
	TemplateName   string
	TemplateCode   string
	CriteriaNumber int
	BoardCode      string
	YearName       string
	Meta         *schema.Metadata
	// Rows[i] holds the payloads of section i in export order.
	Rows [][]map[string]any
}

// Exporter renders collection workbooks. It is stateless; every call builds
// a fresh file.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportTemplate renders a single-sheet workbook for one template.
func (e *Exporter) ExportTemplate(in SheetInput) ([]byte, string, string, error) {
	f := excelize.NewFile()

	sheet := sheetNameFor(in.TemplateCode)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", "", err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	if err := e.writeSheet(f, sheet, in); err != nil {
		return nil, "", "", err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", "", err
	}

	filename := fmt.Sprintf("%s_%s_%s.xlsx", in.BoardCode, in.YearName, in.TemplateCode)
	return buf.Bytes(), filename, xlsxContentType, nil
}

// ExportBoard renders one sheet per template of a board.
func (e *Exporter) ExportBoard(boardCode, yearName string, sheets []SheetInput) ([]byte, string, string, error) {
	f := excelize.NewFile()

	used := make(map[string]bool, len(sheets))
	for i, in := range sheets {
		sheet := uniqueSheetName(in, used)
		used[sheet] = true
		index, err := f.NewSheet(sheet)
		if err != nil {
			return nil, "", "", err
		}
		if i == 0 {
			f.DeleteSheet("Sheet1")
			f.SetActiveSheet(index)
		}
		if err := e.writeSheet(f, sheet, in); err != nil {
			return nil, "", "", err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", "", err
	}

	filename := fmt.Sprintf("%s_%s_all_templates.xlsx", boardCode, yearName)
	return buf.Bytes(), filename, xlsxContentType, nil
}

// writeSheet lays out the title block, then every section with its merged
// header rows and data. An empty row set still produces the full header
// skeleton.
func (e *Exporter) writeSheet(f *excelize.File, sheet string, in SheetInput) error {
	flat := schema.FlattenMetadata(in.Meta)
	width := maxSectionWidth(flat)
	if width == 0 {
		width = 1
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	sectionStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    boxBorder(),
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    boxBorder(),
	})

	// title block
	row := 1
	setMergedRowN(f, sheet, row, width, in.TemplateName, titleStyle)
	row++
	setMergedRowN(f, sheet, row, width,
		fmt.Sprintf("Template: %s    Academic Year: %s", in.TemplateCode, in.YearName), 0)
	row++
	setMergedRowN(f, sheet, row, width,
		"Generated: "+time.Now().Format("2006-01-02 15:04:05"), 0)
	row += 2 // one blank spacer row

	colWidths := make([]float64, width)

	for si, cols := range flat {
		if len(cols) == 0 {
			continue
		}

		// section header rows, one per heading line, merged across the span
		for _, h := range in.Meta.Sections[si].Headers {
			setMergedRowN(f, sheet, row, len(cols), h, sectionStyle)
			row++
		}

		// two-row column header block: groups merged over their children,
		// singles merged vertically across both rows
		groupRow := row
		childRow := row + 1
		col := 1
		for col <= len(cols) {
			fc := cols[col-1]
			if fc.Group == "" {
				top, _ := excelize.CoordinatesToCellName(col, groupRow)
				bottom, _ := excelize.CoordinatesToCellName(col, childRow)
				f.SetCellValue(sheet, top, fc.DisplayName)
				f.MergeCell(sheet, top, bottom)
				colWidths[col-1] = maxWidth(colWidths[col-1], fc.DisplayName, fc.Column.DataType)
				col++
				continue
			}

			// span of consecutive children of the same group
			start := col
			for col <= len(cols) && cols[col-1].Group == fc.Group {
				child := cols[col-1]
				cell, _ := excelize.CoordinatesToCellName(col, childRow)
				f.SetCellValue(sheet, cell, child.DisplayName)
				colWidths[col-1] = maxWidth(colWidths[col-1], child.DisplayName, child.Column.DataType)
				col++
			}
			first, _ := excelize.CoordinatesToCellName(start, groupRow)
			last, _ := excelize.CoordinatesToCellName(col-1, groupRow)
			f.SetCellValue(sheet, first, groupDisplay(in.Meta, si, fc.Group))
			if start != col-1 {
				f.MergeCell(sheet, first, last)
			}
		}
		styleRange(f, sheet, 1, groupRow, len(cols), childRow, headerStyle)
		row = childRow + 1

		// data rows
		var sectionRows []map[string]any
		if si < len(in.Rows) {
			sectionRows = in.Rows[si]
		}
		for _, payload := range sectionRows {
			for ci, fc := range cols {
				val, ok := payload[fc.Path]
				if !ok || val == nil {
					continue // empty cells stay empty
				}
				cell, _ := excelize.CoordinatesToCellName(ci+1, row)
				f.SetCellValue(sheet, cell, cellValue(val))
				colWidths[ci] = maxWidth(colWidths[ci], fmt.Sprintf("%v", cellValue(val)), fc.Column.DataType)
			}
			styleRange(f, sheet, 1, row, len(cols), row, dataStyle)
			row++
		}

		row++ // spacer between sections
	}

	for i, w := range colWidths {
		if w == 0 {
			w = typeFloor("")
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, name, name, w)
	}
	return nil
}

// cellValue keeps file values readable in the sheet: the stored name rather
// than the whole object.
func cellValue(val any) any {
	if m, ok := val.(map[string]any); ok {
		if name, ok := m["name"].(string); ok {
			return name
		}
	}
	return val
}

func groupDisplay(m *schema.Metadata, sectionIndex int, groupName string) string {
	for _, col := range m.Sections[sectionIndex].Columns {
		if col.Type == schema.ColumnGroup && col.Name == groupName {
			if col.DisplayName != "" {
				return col.DisplayName
			}
			return col.Name
		}
	}
	return groupName
}

// sheetNameFor keeps the workbook valid: excel caps sheet names at 31 chars.
func sheetNameFor(code string) string {
	if len(code) > 31 {
		return code[:31]
	}
	return code
}

// uniqueSheetName resolves collisions inside one workbook. Template codes
// are unique only within a criteria, so two criteria of one board can share
// a code; the criterion number disambiguates, a counter catches the rest
// (including truncation collisions).
func uniqueSheetName(in SheetInput, used map[string]bool) string {
	name := sheetNameFor(in.TemplateCode)
	if !used[name] {
		return name
	}
	name = sheetNameFor(fmt.Sprintf("%d_%s", in.CriteriaNumber, in.TemplateCode))
	if !used[name] {
		return name
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf("_%d", n)
		base := in.TemplateCode
		if len(base)+len(suffix) > 31 {
			base = base[:31-len(suffix)]
		}
		if candidate := base + suffix; !used[candidate] {
			return candidate
		}
	}
}

func maxSectionWidth(flat [][]schema.FlatColumn) int {
	w := 0
	for _, cols := range flat {
		if len(cols) > w {
			w = len(cols)
		}
	}
	return w
}

// typeFloor gives each data type a minimum readable width.
func typeFloor(dataType string) float64 {
	switch dataType {
	case schema.TypeDate:
		return 12
	case schema.TypeNumber:
		return 10
	case schema.TypeEmail:
		return 24
	case schema.TypeURL:
		return 30
	case schema.TypeBoolean:
		return 8
	default:
		return 16
	}
}

// maxWidth sizes a column to its longest content, floored per type and
// capped so long text wraps instead of stretching the sheet.
func maxWidth(current float64, content, dataType string) float64 {
	w := float64(len(content)) + 2
	if floor := typeFloor(dataType); w < floor {
		w = floor
	}
	if w > 60 {
		w = 60
	}
	if w < current {
		return current
	}
	return w
}

func setMergedRowN(f *excelize.File, sheet string, row, span int, value string, style int) {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(span, row)
	f.SetCellValue(sheet, first, value)
	if span > 1 {
		f.MergeCell(sheet, first, last)
	}
	if style != 0 {
		f.SetCellStyle(sheet, first, last, style)
	}
}

func styleRange(f *excelize.File, sheet string, c1, r1, c2, r2 int, style int) {
	first, _ := excelize.CoordinatesToCellName(c1, r1)
	last, _ := excelize.CoordinatesToCellName(c2, r2)
	f.SetCellStyle(sheet, first, last, style)
}

func boxBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1, Color: "#999999"},
		{Type: "right", Style: 1, Color: "#999999"},
		{Type: "top", Style: 1, Color: "#999999"},
		{Type: "bottom", Style: 1, Color: "#999999"},
	}
}

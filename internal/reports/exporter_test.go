package reports

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sharath018/accreditation-data-backend/internal/schema"
)

func exportInput() SheetInput {
	return SheetInput{
		TemplateName: "Research Projects",
		TemplateCode: "criteria3_projects",
		BoardCode:    "NBA",
		YearName:     "2025-26",
		Meta: &schema.Metadata{
			Sections: []schema.Section{
				{
					Headers: []string{"3.2 Research Projects"},
					Columns: []schema.Column{
						{Name: "title", DisplayName: "Title", Type: schema.ColumnSingle, DataType: schema.TypeString},
						{
							Name:        "coordinator",
							DisplayName: "Coordinator",
							Type:        schema.ColumnGroup,
							Columns: []schema.Column{
								{Name: "name", DisplayName: "Name", Type: schema.ColumnSingle, DataType: schema.TypeString},
								{Name: "email", DisplayName: "Email ID", Type: schema.ColumnSingle, DataType: schema.TypeEmail},
							},
						},
					},
				},
			},
		},
		Rows: [][]map[string]any{
			{
				{"title": "AI Lab", "coordinator_name": "Asha", "coordinator_email": "asha@example.edu"},
				{"title": "Solar Grid", "coordinator_name": "Ravi"},
			},
		},
	}
}

func TestExportTemplateLayout(t *testing.T) {
	data, filename, contentType, err := NewExporter().ExportTemplate(exportInput())
	require.NoError(t, err)
	assert.Equal(t, "NBA_2025-26_criteria3_projects.xlsx", filename)
	assert.Equal(t, xlsxContentType, contentType)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := "criteria3_projects"
	require.Contains(t, f.GetSheetList(), sheet)

	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	// title block: name, template/year line, generated line, spacer
	assert.Equal(t, "Research Projects", get("A1"))
	assert.Contains(t, get("A2"), "criteria3_projects")
	assert.Contains(t, get("A2"), "2025-26")

	// section heading on row 5, two header rows below it
	assert.Equal(t, "3.2 Research Projects", get("A5"))
	assert.Equal(t, "Title", get("A6"))
	assert.Equal(t, "Coordinator", get("B6"))
	assert.Equal(t, "Name", get("B7"))
	assert.Equal(t, "Email ID", get("C7"))

	// the group spans its children, the single spans both header rows
	merged, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	ranges := make([]string, 0, len(merged))
	for _, m := range merged {
		ranges = append(ranges, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	assert.Contains(t, ranges, "B6:C6")
	assert.Contains(t, ranges, "A6:A7")

	// data rows start under the header block; a missing payload key leaves
	// the cell empty
	assert.Equal(t, "AI Lab", get("A8"))
	assert.Equal(t, "asha@example.edu", get("C8"))
	assert.Equal(t, "Ravi", get("B9"))
	assert.Equal(t, "", get("C9"))
}

func TestExportTemplateNoRowsStillWritesHeaders(t *testing.T) {
	in := exportInput()
	in.Rows = nil

	data, _, _, err := NewExporter().ExportTemplate(in)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := "criteria3_projects"
	v, err := f.GetCellValue(sheet, "A6")
	require.NoError(t, err)
	assert.Equal(t, "Title", v)

	v, err = f.GetCellValue(sheet, "A8")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestExportBoardOneSheetPerTemplate(t *testing.T) {
	first := exportInput()
	second := exportInput()
	second.TemplateCode = "criteria3_publications"
	second.TemplateName = "Publications"

	data, filename, _, err := NewExporter().ExportBoard("NBA", "2025-26", []SheetInput{first, second})
	require.NoError(t, err)
	assert.Equal(t, "NBA_2025-26_all_templates.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	list := f.GetSheetList()
	assert.Contains(t, list, "criteria3_projects")
	assert.Contains(t, list, "criteria3_publications")
	assert.NotContains(t, list, "Sheet1")
}

func TestExportBoardDisambiguatesSharedCodes(t *testing.T) {
	// codes are unique only within a criteria; two criteria of one board
	// can both carry e.g. "summary"
	first := exportInput()
	first.TemplateCode = "summary"
	first.CriteriaNumber = 1
	second := exportInput()
	second.TemplateCode = "summary"
	second.CriteriaNumber = 2

	data, _, _, err := NewExporter().ExportBoard("NBA", "2025-26", []SheetInput{first, second})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	list := f.GetSheetList()
	assert.Contains(t, list, "summary")
	assert.Contains(t, list, "2_summary")
	assert.Len(t, list, 2)
}

func TestUniqueSheetNameFallsBackToCounter(t *testing.T) {
	in := SheetInput{TemplateCode: "summary", CriteriaNumber: 2}
	used := map[string]bool{"summary": true, "2_summary": true}
	assert.Equal(t, "summary_2", uniqueSheetName(in, used))

	long := SheetInput{TemplateCode: strings.Repeat("x", 40), CriteriaNumber: 1}
	used = map[string]bool{
		sheetNameFor(long.TemplateCode):        true,
		sheetNameFor("1_" + long.TemplateCode): true,
	}
	name := uniqueSheetName(long, used)
	assert.LessOrEqual(t, len(name), 31)
	assert.True(t, strings.HasSuffix(name, "_2"))
}

func TestSheetNameTruncation(t *testing.T) {
	long := strings.Repeat("x", 40)
	assert.Len(t, sheetNameFor(long), 31)
	assert.Equal(t, "short", sheetNameFor("short"))
}

func TestCellValueUnwrapsFileObjects(t *testing.T) {
	assert.Equal(t, "report.pdf", cellValue(map[string]any{"name": "report.pdf", "url": "/files/abc"}))
	assert.Equal(t, 42, cellValue(42))
}

func TestExportRoundTripsThroughImporter(t *testing.T) {
	in := exportInput()
	data, _, _, err := NewExporter().ExportTemplate(in)
	require.NoError(t, err)

	meta, err := NewImporter().Parse(data)
	require.NoError(t, err)
	require.Len(t, meta.Sections, 1)

	cols := meta.Sections[0].Columns
	require.Len(t, cols, 2)
	assert.Equal(t, "title", cols[0].Name)
	require.Equal(t, schema.ColumnGroup, cols[1].Type)
	assert.Equal(t, "coordinator", cols[1].Name)
	require.Len(t, cols[1].Columns, 2)
	assert.Equal(t, "name", cols[1].Columns[0].Name)
	assert.Equal(t, "email_id", cols[1].Columns[1].Name)
}

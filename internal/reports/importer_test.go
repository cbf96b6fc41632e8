package reports

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sharath018/accreditation-data-backend/internal/schema"
)

// buildWorkbook writes the given rows onto the first sheet and returns the
// encoded file.
func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for ri, row := range rows {
		for ci, val := range row {
			if val == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseSingleRowHeaders(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{"2.1 Student Intake"},
		{"S.No", "Programme Name", "Intake Count", "Website Link"},
	})

	meta, err := NewImporter().Parse(data)
	require.NoError(t, err)
	require.Len(t, meta.Sections, 1)

	sec := meta.Sections[0]
	assert.Equal(t, []string{"2.1 Student Intake"}, sec.Headers)
	assert.True(t, sec.Required)

	require.Len(t, sec.Columns, 4)
	assert.Equal(t, "sno", sec.Columns[0].Name)
	assert.Equal(t, "programme_name", sec.Columns[1].Name)
	assert.Equal(t, schema.TypeNumber, sec.Columns[2].DataType)
	assert.Equal(t, schema.TypeURL, sec.Columns[3].DataType)
}

func TestParseGroupLayout(t *testing.T) {
	// "Coordinator" spans two blank-top child cells, "Title" occupies both
	// header rows on its own.
	data := buildWorkbook(t, [][]string{
		{"3.2 Research Projects"},
		{"Title", "Coordinator", "", "Completion Date"},
		{"", "Name", "Email ID", ""},
	})

	meta, err := NewImporter().Parse(data)
	require.NoError(t, err)
	require.Len(t, meta.Sections, 1)

	cols := meta.Sections[0].Columns
	require.Len(t, cols, 3)

	assert.Equal(t, schema.ColumnSingle, cols[0].Type)
	assert.Equal(t, "title", cols[0].Name)

	require.Equal(t, schema.ColumnGroup, cols[1].Type)
	assert.Equal(t, "coordinator", cols[1].Name)
	require.Len(t, cols[1].Columns, 2)
	assert.Equal(t, "name", cols[1].Columns[0].Name)
	assert.Equal(t, schema.TypeEmail, cols[1].Columns[1].DataType)

	assert.Equal(t, schema.ColumnSingle, cols[2].Type)
	assert.Equal(t, schema.TypeDate, cols[2].DataType)
}

func TestParseMultiLineHeadingAndTwoSections(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{"1.1 Curriculum Design"},
		{"(data for the current academic year)"},
		{"Course Code", "Course Name"},
		{},
		{"1.2 Feedback"},
		{"Stakeholder", "Feedback Document"},
	})

	meta, err := NewImporter().Parse(data)
	require.NoError(t, err)
	require.Len(t, meta.Sections, 2)

	assert.Equal(t, []string{"1.1 Curriculum Design", "(data for the current academic year)"},
		meta.Sections[0].Headers)
	assert.Equal(t, schema.TypeFile, meta.Sections[1].Columns[1].DataType)
}

func TestParseSectionWithoutColumnsIsDropped(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{"4.1 Placeholder Section"},
		{},
		{"5.1 Real Section"},
		{"Name", "Count"},
	})

	meta, err := NewImporter().Parse(data)
	require.NoError(t, err)
	require.Len(t, meta.Sections, 1)
	assert.Equal(t, "5.1 Real Section", meta.Sections[0].Headers[0])
}

func TestParseNoSectionsFails(t *testing.T) {
	data := buildWorkbook(t, [][]string{
		{"just some text"},
		{"more text"},
	})

	_, err := NewImporter().Parse(data)
	require.Error(t, err)
}

func TestParseGarbageFails(t *testing.T) {
	_, err := NewImporter().Parse([]byte("not a workbook"))
	require.Error(t, err)
}

func TestInferDataType(t *testing.T) {
	cases := map[string]string{
		"Approved (Yes/No)":     schema.TypeOption,
		"Date of Establishment": schema.TypeDate,
		"Email ID":              schema.TypeEmail,
		"Website URL":           schema.TypeURL,
		"Upload Certificate":    schema.TypeFile,
		"Total Amount":          schema.TypeNumber,
		"Percentage of Pass":    schema.TypeNumber,
		"Programme Name":        schema.TypeString,
	}
	for display, want := range cases {
		assert.Equal(t, want, inferDataType(display), display)
	}
}

func TestYesNoColumnsBecomeSelects(t *testing.T) {
	col := leafColumn("Approved (Yes/No)")
	assert.Equal(t, schema.TypeOption, col.DataType)
	assert.Equal(t, []string{"Yes", "No"}, col.Options)

	// the literal strings the sheet carries must validate
	sec := schema.Section{Headers: []string{"h"}, Columns: []schema.Column{col}}
	assert.NoError(t, schema.ValidateRow(&sec, map[string]any{col.Name: "Yes"}))
	assert.NoError(t, schema.ValidateRow(&sec, map[string]any{col.Name: "No"}))
	assert.Error(t, schema.ValidateRow(&sec, map[string]any{col.Name: "Maybe"}))
}

func TestMachineName(t *testing.T) {
	cases := map[string]string{
		"S.No":                "sno",
		"Programme Name":      "programme_name",
		"E-mail ID":           "e_mail_id",
		"Intake (Sanctioned)": "intake_sanctioned",
		"  Trailing  ":        "trailing",
		"!!!":                 "column",
	}
	for display, want := range cases {
		assert.Equal(t, want, machineName(display), display)
	}
}

package reports

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStatusSummaryPDF(t *testing.T) {
	rows := []StatusSummaryRow{
		{TemplateCode: "criteria1_courses", TemplateName: "Courses", DepartmentName: "CSE",
			Status: "approved", RowCount: 12, UpdatedAt: time.Now()},
		{TemplateCode: "criteria3_projects", TemplateName: "Projects", DepartmentName: "ECE",
			Status: "draft", RowCount: 0, UpdatedAt: time.Now()},
	}

	data, filename, contentType, err := renderStatusSummaryPDF("2025-26", rows)
	require.NoError(t, err)
	assert.Equal(t, "submission_status_2025-26.pdf", filename)
	assert.Equal(t, "application/pdf", contentType)
	require.True(t, len(data) > 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestTruncateOnRuneBoundaries(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdef", 5))

	// must not split a multi-byte rune mid-sequence
	got := truncate("Département Génie Électrique et Informatique Industrielle", 20)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 20, len([]rune(got)))
}

func TestRenderStatusSummaryPDFEmpty(t *testing.T) {
	data, _, _, err := renderStatusSummaryPDF("2025-26", nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
)

func singleSection(cols ...Column) *Section {
	return &Section{Headers: []string{"h"}, Columns: cols}
}

func fieldErrors(t *testing.T, err error) []apperrors.FieldError {
	t.Helper()
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Fields
}

func TestValidateRowRequiredMissing(t *testing.T) {
	sec := singleSection(Column{Name: "email_addr", Type: ColumnSingle, DataType: TypeEmail, Required: true})

	err := ValidateRow(sec, map[string]any{})
	fes := fieldErrors(t, err)
	require.Len(t, fes, 1)
	assert.Equal(t, "email_addr", fes[0].Field)
	assert.Contains(t, fes[0].Reason, "required")

	err = ValidateRow(sec, map[string]any{"email_addr": "not-an-email"})
	fes = fieldErrors(t, err)
	require.Len(t, fes, 1)
	assert.Contains(t, fes[0].Reason, "email")

	require.NoError(t, ValidateRow(sec, map[string]any{"email_addr": "a@b.com"}))
}

func TestValidateRowBlankStringCountsAsMissing(t *testing.T) {
	sec := singleSection(Column{Name: "title", Type: ColumnSingle, DataType: TypeString, Required: true})
	err := ValidateRow(sec, map[string]any{"title": "   "})
	require.Error(t, err)
}

func TestValidateRowNumberBounds(t *testing.T) {
	min, max := 1.0, 10.0
	sec := singleSection(Column{
		Name: "count", Type: ColumnSingle, DataType: TypeNumber,
		Validation: &Validation{Min: &min, Max: &max},
	})

	require.NoError(t, ValidateRow(sec, map[string]any{"count": 1}))   // inclusive lower
	require.NoError(t, ValidateRow(sec, map[string]any{"count": 10.0}))
	require.NoError(t, ValidateRow(sec, map[string]any{"count": "7"}))
	require.Error(t, ValidateRow(sec, map[string]any{"count": 0}))
	require.Error(t, ValidateRow(sec, map[string]any{"count": 10.5}))
	require.Error(t, ValidateRow(sec, map[string]any{"count": "seven"}))
}

func TestValidateRowDate(t *testing.T) {
	sec := singleSection(Column{Name: "held_on", Type: ColumnSingle, DataType: TypeDate})
	require.NoError(t, ValidateRow(sec, map[string]any{"held_on": "2024-02-29"}))
	require.Error(t, ValidateRow(sec, map[string]any{"held_on": "2023-02-29"}))
	require.Error(t, ValidateRow(sec, map[string]any{"held_on": "29/02/2024"}))
}

func TestValidateRowURL(t *testing.T) {
	sec := singleSection(Column{Name: "link", Type: ColumnSingle, DataType: TypeURL})
	require.NoError(t, ValidateRow(sec, map[string]any{"link": "https://example.edu/report"}))
	require.Error(t, ValidateRow(sec, map[string]any{"link": "example"}))
	require.Error(t, ValidateRow(sec, map[string]any{"link": "/relative/path"}))
}

func TestValidateRowOptionExactMatch(t *testing.T) {
	sec := singleSection(Column{
		Name: "level", Type: ColumnSingle, DataType: TypeOption,
		Options: []string{"UG", "PG"},
	})
	require.NoError(t, ValidateRow(sec, map[string]any{"level": "UG"}))
	require.Error(t, ValidateRow(sec, map[string]any{"level": "ug"}))
	require.Error(t, ValidateRow(sec, map[string]any{"level": "Diploma"}))
}

func TestValidateRowBooleanStrict(t *testing.T) {
	sec := singleSection(Column{Name: "active", Type: ColumnSingle, DataType: TypeBoolean})
	require.NoError(t, ValidateRow(sec, map[string]any{"active": true}))
	require.Error(t, ValidateRow(sec, map[string]any{"active": "true"}))
	require.Error(t, ValidateRow(sec, map[string]any{"active": 1}))
}

func TestValidateRowStringConstraints(t *testing.T) {
	minLen, maxLen := 2, 5
	sec := singleSection(Column{
		Name: "code", Type: ColumnSingle, DataType: TypeString,
		Validation: &Validation{MinLength: &minLen, MaxLength: &maxLen, Pattern: `^[A-Z]+$`},
	})
	require.NoError(t, ValidateRow(sec, map[string]any{"code": "ABC"}))
	require.Error(t, ValidateRow(sec, map[string]any{"code": "A"}))
	require.Error(t, ValidateRow(sec, map[string]any{"code": "ABCDEF"}))
	require.Error(t, ValidateRow(sec, map[string]any{"code": "abc"}))
}

func TestValidateRowFile(t *testing.T) {
	sec := singleSection(Column{
		Name: "certificate", Type: ColumnSingle, DataType: TypeFile,
		Validation: &Validation{AllowedExtensions: []string{"pdf", ".PNG"}},
	})

	ok := map[string]any{"certificate": map[string]any{"name": "scan.PDF", "size": float64(1024)}}
	require.NoError(t, ValidateRow(sec, ok))

	badExt := map[string]any{"certificate": map[string]any{"name": "scan.exe", "size": float64(10)}}
	require.Error(t, ValidateRow(sec, badExt))

	tooBig := map[string]any{"certificate": map[string]any{"name": "scan.pdf", "size": float64(DefaultMaxFileSize + 1)}}
	require.Error(t, ValidateRow(sec, tooBig))
}

func TestValidateRowGroupFieldPath(t *testing.T) {
	sec := singleSection(Column{
		Name: "coordinator", Type: ColumnGroup,
		Columns: []Column{
			{Name: "email", Type: ColumnSingle, DataType: TypeEmail, Required: true},
		},
	})
	err := ValidateRow(sec, map[string]any{})
	fes := fieldErrors(t, err)
	require.Len(t, fes, 1)
	assert.Equal(t, "coordinator_email", fes[0].Field)
}

func TestValidateRowAccumulatesAllErrors(t *testing.T) {
	sec := singleSection(
		Column{Name: "title", Type: ColumnSingle, DataType: TypeString, Required: true},
		Column{Name: "count", Type: ColumnSingle, DataType: TypeNumber, Required: true},
		Column{Name: "link", Type: ColumnSingle, DataType: TypeURL},
	)
	err := ValidateRow(sec, map[string]any{"link": "nope"})
	fes := fieldErrors(t, err)
	assert.Len(t, fes, 3)
}

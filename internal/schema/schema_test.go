package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
)

func validMetadata() *Metadata {
	return &Metadata{
		Sections: []Section{
			{
				Headers: []string{"Programme Details"},
				Columns: []Column{
					{Name: "title", Type: ColumnSingle, DataType: TypeString, Required: true},
					{Name: "intake", Type: ColumnSingle, DataType: TypeNumber},
					{
						Name: "coordinator",
						Type: ColumnGroup,
						Columns: []Column{
							{Name: "name", Type: ColumnSingle, DataType: TypeString},
							{Name: "email", Type: ColumnSingle, DataType: TypeEmail},
						},
					},
				},
			},
		},
	}
}

func TestValidateMetadataOK(t *testing.T) {
	require.NoError(t, ValidateMetadata(validMetadata()))
}

func TestValidateMetadataNoSections(t *testing.T) {
	err := ValidateMetadata(&Metadata{})
	require.Error(t, err)
	var se *apperrors.SchemaError
	require.ErrorAs(t, err, &se)
}

func TestValidateMetadataUnknownDataType(t *testing.T) {
	m := validMetadata()
	m.Sections[0].Columns[0].DataType = "decimal"
	err := ValidateMetadata(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decimal")
}

func TestValidateMetadataOptionWithoutOptions(t *testing.T) {
	m := validMetadata()
	m.Sections[0].Columns = append(m.Sections[0].Columns, Column{
		Name: "level", Type: ColumnSingle, DataType: TypeOption,
	})
	require.Error(t, ValidateMetadata(m))
}

func TestValidateMetadataNestedGroupRejected(t *testing.T) {
	m := validMetadata()
	m.Sections[0].Columns[2].Columns = append(m.Sections[0].Columns[2].Columns, Column{
		Name: "inner", Type: ColumnGroup,
		Columns: []Column{{Name: "x", Type: ColumnSingle, DataType: TypeString}},
	})
	err := ValidateMetadata(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot contain other groups")
}

func TestValidateMetadataEmptyGroup(t *testing.T) {
	m := validMetadata()
	m.Sections[0].Columns[2].Columns = nil
	require.Error(t, ValidateMetadata(m))
}

func TestValidateMetadataDuplicateColumn(t *testing.T) {
	m := validMetadata()
	m.Sections[0].Columns = append(m.Sections[0].Columns, Column{
		Name: "title", Type: ColumnSingle, DataType: TypeString,
	})
	require.Error(t, ValidateMetadata(m))
}

func TestFlattenOrderPreserving(t *testing.T) {
	sec := &Section{
		Headers: []string{"h"},
		Columns: []Column{
			{Name: "g", Type: ColumnGroup, Columns: []Column{
				{Name: "a", Type: ColumnSingle, DataType: TypeString},
				{Name: "b", Type: ColumnSingle, DataType: TypeString},
			}},
			{Name: "solo", Type: ColumnSingle, DataType: TypeString},
		},
	}

	flat := FlattenSection(sec)
	paths := make([]string, len(flat))
	for i, fc := range flat {
		paths[i] = fc.Path
	}
	assert.Equal(t, []string{"g_a", "g_b", "solo"}, paths)

	// deterministic on repeat
	again := FlattenSection(sec)
	require.Len(t, again, len(flat))
	for i := range flat {
		assert.Equal(t, flat[i].Path, again[i].Path)
	}
}

func TestFlattenCarriesGroupAndDisplay(t *testing.T) {
	sec := &Section{
		Headers: []string{"h"},
		Columns: []Column{
			{Name: "g", Type: ColumnGroup, Columns: []Column{
				{Name: "a", DisplayName: "Alpha", Type: ColumnSingle, DataType: TypeString},
			}},
		},
	}
	flat := FlattenSection(sec)
	require.Len(t, flat, 1)
	assert.Equal(t, "g", flat[0].Group)
	assert.Equal(t, "Alpha", flat[0].DisplayName)
}

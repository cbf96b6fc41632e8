package schema

// FlatColumn is one leaf field with its flattened path. Group children get
// the path "{group}_{child}"; top-level singles keep their own name.
type FlatColumn struct {
	Path        string
	DisplayName string
	Group       string // empty for top-level singles
	Column      Column
}

// FlattenSection walks the section's columns in declared order and returns
// the leaf fields in that same order. The ordering is what the Excel
// exporter relies on, so it must stay deterministic.
func FlattenSection(sec *Section) []FlatColumn {
	out := make([]FlatColumn, 0, len(sec.Columns))
	for _, col := range sec.Columns {
		switch col.Type {
		case ColumnGroup:
			for _, child := range col.Columns {
				out = append(out, FlatColumn{
					Path:        col.Name + "_" + child.Name,
					DisplayName: displayOf(child),
					Group:       col.Name,
					Column:      child,
				})
			}
		default:
			out = append(out, FlatColumn{
				Path:        col.Name,
				DisplayName: displayOf(col),
				Column:      col,
			})
		}
	}
	return out
}

// FlattenMetadata flattens every section, keyed by section index.
func FlattenMetadata(m *Metadata) [][]FlatColumn {
	out := make([][]FlatColumn, len(m.Sections))
	for i := range m.Sections {
		out[i] = FlattenSection(&m.Sections[i])
	}
	return out
}

func displayOf(c Column) string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

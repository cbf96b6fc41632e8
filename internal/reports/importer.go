package reports

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/internal/schema"
)

// headingRe matches numbered section headings like "2.1 Student Intake".
var headingRe = regexp.MustCompile(`^\d+(\.\d+)*\s+`)

// nonWordRe strips everything machine names cannot carry.
var nonWordRe = regexp.MustCompile(`[^a-z0-9_\s-]`)
var spaceRe = regexp.MustCompile(`[\s-]+`)

// Importer derives a template column schema from a formatted workbook. The
// inverse of the exporter: numbered headings open sections, the header rows
// below them become columns.
type Importer struct{}

func NewImporter() *Importer {
	return &Importer{}
}

// Parse reads the first worksheet and builds template metadata from it.
func (im *Importer) Parse(data []byte) (*schema.Metadata, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewSchemaError("", "could not open workbook: "+err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewSchemaError("", "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	meta := &schema.Metadata{}
	i := 0
	for i < len(rows) {
		heading, ok := headingCell(rows[i])
		if !ok {
			i++
			continue
		}

		sec := schema.Section{Headers: []string{heading}, Required: true}
		i++

		// consecutive heading-free non-empty rows directly below the
		// numbered line extend the section heading text
		for i < len(rows) {
			if _, isHeading := headingCell(rows[i]); isHeading {
				break
			}
			if isHeaderCandidate(rows[i]) {
				break
			}
			if line := joinedText(rows[i]); line != "" {
				sec.Headers = append(sec.Headers, line)
			}
			i++
		}

		// column header block: one or two rows
		if i < len(rows) && isHeaderCandidate(rows[i]) {
			headerRow := rows[i]
			var childRow []string
			if i+1 < len(rows) && isGroupLayout(headerRow, rows[i+1]) {
				childRow = rows[i+1]
				i += 2
			} else {
				i++
			}
			sec.Columns = buildColumns(headerRow, childRow)
		}

		if len(sec.Columns) > 0 {
			meta.Sections = append(meta.Sections, sec)
		}
	}

	if len(meta.Sections) == 0 {
		return nil, apperrors.NewSchemaError("", "no numbered sections with columns found in workbook")
	}
	if err := schema.ValidateMetadata(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// headingCell reports whether the row opens a section: its first non-empty
// cell starts with a numbered heading.
func headingCell(row []string) (string, bool) {
	for _, cell := range row {
		text := strings.TrimSpace(cell)
		if text == "" {
			continue
		}
		if headingRe.MatchString(text) {
			return text, true
		}
		return "", false
	}
	return "", false
}

// isHeaderCandidate is the column-header heuristic: at least two non-empty
// cells, none of them numbered headings.
func isHeaderCandidate(row []string) bool {
	count := 0
	for _, cell := range row {
		text := strings.TrimSpace(cell)
		if text == "" {
			continue
		}
		if headingRe.MatchString(text) {
			return false
		}
		count++
	}
	return count >= 2
}

// isGroupLayout decides between a one-row and a two-row header block: the
// top row is a group row when it leaves gaps that the row below fills in.
func isGroupLayout(top, below []string) bool {
	if !isHeaderCandidate(below) {
		return false
	}
	for i, cell := range below {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		if i >= len(top) || strings.TrimSpace(top[i]) == "" {
			return true
		}
	}
	return false
}

// buildColumns assembles the section's columns. With a child row present,
// group cells in the top row span the blank run to their right.
func buildColumns(top, children []string) []schema.Column {
	if children == nil {
		var cols []schema.Column
		for _, cell := range top {
			text := strings.TrimSpace(cell)
			if text == "" {
				continue
			}
			cols = append(cols, leafColumn(text))
		}
		return cols
	}

	width := len(children)
	if len(top) > width {
		width = len(top)
	}

	var cols []schema.Column
	var currentGroup *schema.Column
	for i := 0; i < width; i++ {
		topText := cellAt(top, i)
		childText := cellAt(children, i)

		if topText == "" {
			if childText == "" {
				continue
			}
			if currentGroup != nil {
				currentGroup.Columns = append(currentGroup.Columns, leafColumn(childText))
			} else {
				cols = append(cols, leafColumn(childText))
			}
			continue
		}

		// A filled top cell starts either a group or a standalone column.
		// Merged group labels anchor above their first child, so it is a
		// group when the child run continues to the right: the next cell
		// has a blank top and a filled child row.
		startsGroup := cellAt(top, i+1) == "" && cellAt(children, i+1) != ""
		if childText != "" && !startsGroup {
			currentGroup = nil
			cols = append(cols, leafColumn(topText))
			continue
		}

		g := schema.Column{
			Name:        machineName(topText),
			DisplayName: topText,
			Type:        schema.ColumnGroup,
		}
		if childText != "" {
			g.Columns = append(g.Columns, leafColumn(childText))
		}
		cols = append(cols, g)
		currentGroup = &cols[len(cols)-1]
	}

	// a "group" that gathered no children degrades to a plain column
	for i := range cols {
		if cols[i].Type == schema.ColumnGroup && len(cols[i].Columns) == 0 {
			cols[i] = leafColumn(cols[i].DisplayName)
		}
	}
	return cols
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func leafColumn(display string) schema.Column {
	col := schema.Column{
		Name:        machineName(display),
		DisplayName: display,
		Type:        schema.ColumnSingle,
		DataType:    inferDataType(display),
	}
	if col.DataType == schema.TypeOption {
		// yes/no headers carry the literal strings "Yes"/"No" in the data
		// cells, so they become a two-option select, not a boolean
		col.Options = []string{"Yes", "No"}
	}
	return col
}

// inferDataType guesses the data type from keywords in the display name.
func inferDataType(display string) string {
	lower := strings.ToLower(display)
	switch {
	case strings.Contains(lower, "(yes/no)") || strings.Contains(lower, "yes/no"):
		return schema.TypeOption
	case strings.Contains(lower, "date"):
		return schema.TypeDate
	case strings.Contains(lower, "email"):
		return schema.TypeEmail
	case strings.Contains(lower, "link") || strings.Contains(lower, "url") || strings.Contains(lower, "website"):
		return schema.TypeURL
	case strings.Contains(lower, "file") || strings.Contains(lower, "upload") || strings.Contains(lower, "document"):
		return schema.TypeFile
	case strings.Contains(lower, "number") || strings.Contains(lower, "count") ||
		strings.Contains(lower, "total") || strings.Contains(lower, "amount") ||
		strings.Contains(lower, "percentage"):
		return schema.TypeNumber
	default:
		return schema.TypeString
	}
}

// machineName turns a display name into a stable payload key: lower-cased,
// punctuation stripped, whitespace and hyphens collapsed to underscores.
func machineName(display string) string {
	s := strings.ToLower(strings.TrimSpace(display))
	s = nonWordRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		s = "column"
	}
	return s
}

// joinedText concatenates a row's non-empty cells for multi-line headings.
func joinedText(row []string) string {
	var parts []string
	for _, cell := range row {
		if text := strings.TrimSpace(cell); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

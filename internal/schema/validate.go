package schema

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
)

// DefaultMaxFileSize caps file fields when the column does not override it.
const DefaultMaxFileSize = 5 * 1024 * 1024 // 5 MiB

// FileValue is what a file-typed payload entry decodes to.
type FileValue struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Key  string `json:"key,omitempty"` // blob-store key
}

// ValidateRow checks one payload against one section's leaf fields. All
// field failures are accumulated so the caller gets complete feedback in a
// single round trip.
func ValidateRow(sec *Section, payload map[string]any) error {
	verr := &apperrors.ValidationError{}
	for _, fc := range FlattenSection(sec) {
		val, present := payload[fc.Path]
		if isEmpty(val) {
			present = false
		}
		if !present {
			if fc.Column.Required {
				verr.Add(fc.Path, "required field missing")
			}
			continue
		}
		checkValue(verr, fc.Path, &fc.Column, val)
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func checkValue(verr *apperrors.ValidationError, path string, col *Column, val any) {
	switch col.DataType {
	case TypeNumber:
		n, err := toFloat(val)
		if err != nil {
			verr.Add(path, "must be a number")
			return
		}
		if v := col.Validation; v != nil {
			if v.Min != nil && n < *v.Min {
				verr.Add(path, fmt.Sprintf("must be >= %v", *v.Min))
			}
			if v.Max != nil && n > *v.Max {
				verr.Add(path, fmt.Sprintf("must be <= %v", *v.Max))
			}
		}

	case TypeDate:
		s, ok := val.(string)
		if !ok || !isISODate(s) {
			verr.Add(path, "must be a date in YYYY-MM-DD format")
		}

	case TypeEmail:
		s, ok := val.(string)
		if !ok {
			verr.Add(path, "must be an email address")
			return
		}
		if _, err := mail.ParseAddress(s); err != nil {
			verr.Add(path, "must be a valid email address")
		}

	case TypeURL:
		s, ok := val.(string)
		if !ok {
			verr.Add(path, "must be a URL")
			return
		}
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			verr.Add(path, "must be a valid URL with scheme and host")
		}

	case TypeOption:
		s, ok := val.(string)
		if !ok {
			verr.Add(path, "must be one of the declared options")
			return
		}
		for _, opt := range col.Options {
			if s == opt {
				return
			}
		}
		verr.Add(path, fmt.Sprintf("must be one of: %s", strings.Join(col.Options, ", ")))

	case TypeBoolean:
		// strict: "true"/"yes" strings are not booleans
		if _, ok := val.(bool); !ok {
			verr.Add(path, "must be a boolean")
		}

	case TypeFile:
		checkFile(verr, path, col, val)

	default: // TypeString
		s, ok := val.(string)
		if !ok {
			verr.Add(path, "must be a string")
			return
		}
		if v := col.Validation; v != nil {
			if v.MinLength != nil && len(s) < *v.MinLength {
				verr.Add(path, fmt.Sprintf("must be at least %d characters", *v.MinLength))
			}
			if v.MaxLength != nil && len(s) > *v.MaxLength {
				verr.Add(path, fmt.Sprintf("must be at most %d characters", *v.MaxLength))
			}
			if v.Pattern != "" {
				re, err := regexp.Compile(v.Pattern)
				if err != nil {
					verr.Add(path, "column pattern is not a valid regular expression")
				} else if !re.MatchString(s) {
					verr.Add(path, "does not match the required pattern")
				}
			}
		}
	}
}

func checkFile(verr *apperrors.ValidationError, path string, col *Column, val any) {
	fv, ok := toFileValue(val)
	if !ok {
		verr.Add(path, "must be a file reference with name and size")
		return
	}
	v := col.Validation
	if v == nil {
		return
	}
	if len(v.AllowedExtensions) > 0 {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fv.Name), "."))
		allowed := false
		for _, a := range v.AllowedExtensions {
			if ext == strings.ToLower(strings.TrimPrefix(a, ".")) {
				allowed = true
				break
			}
		}
		if !allowed {
			verr.Add(path, fmt.Sprintf("file type .%s is not allowed (allowed: %s)", ext, strings.Join(v.AllowedExtensions, ", ")))
		}
	}
	limit := v.MaxFileSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	if fv.Size > limit {
		verr.Add(path, fmt.Sprintf("file exceeds the %d byte limit", limit))
	}
}

func toFileValue(val any) (FileValue, bool) {
	switch v := val.(type) {
	case FileValue:
		return v, true
	case map[string]any:
		name, _ := v["name"].(string)
		if name == "" {
			return FileValue{}, false
		}
		size, err := toFloat(v["size"])
		if err != nil {
			return FileValue{}, false
		}
		key, _ := v["key"].(string)
		return FileValue{Name: name, Size: int64(size), Key: key}, true
	default:
		return FileValue{}, false
	}
}

func toFloat(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("not a number")
	}
}

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func isISODate(s string) bool {
	if !isoDateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func isEmpty(val any) bool {
	if val == nil {
		return true
	}
	if s, ok := val.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

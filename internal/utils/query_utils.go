package utils

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-content-cache/internal/airtable"
	"go-content-cache/internal/models"
)

var (
	sortParam = regexp.MustCompile(`^sort\[(\d+)\]\[(field|direction)\]$`)
	validate  = validator.New()
)

// FieldError describes one invalid query parameter
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every invalid query parameter of a request
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid query parameters: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...interface{}) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ParseListParams reads list parameters from a query string.
// Sort accepts sort[i][field]/sort[i][direction] or the shorthand sort=field:dir,
// fields accepts fields[] repeated or a comma separated fields value.
func ParseListParams(q url.Values, defaultPageSize int) (models.ListParams, error) {
	params := models.ListParams{
		PageSize:        defaultPageSize,
		Offset:          q.Get("offset"),
		FilterByFormula: q.Get("filterByFormula"),
	}
	verr := &ValidationError{}

	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			verr.add("pageSize", "must be an integer")
		} else {
			params.PageSize = n
		}
	}

	params.Sort = parseSort(q, verr)
	params.Fields = parseFields(q)

	if len(verr.Fields) > 0 {
		return params, verr
	}
	return params, ValidateListParams(params)
}

// ValidateListParams checks parameter bounds and formula syntax
func ValidateListParams(params models.ListParams) error {
	verr := &ValidationError{}

	if err := validate.Struct(params); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("failed to validate params: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.add(jsonFieldName(fe), "failed %s%s", fe.Tag(), paramSuffix(fe.Param()))
		}
	}

	if params.FilterByFormula != "" {
		if err := airtable.ValidateFormula(params.FilterByFormula); err != nil {
			verr.add("filterByFormula", "%s", err.Error())
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func parseSort(q url.Values, verr *ValidationError) []models.SortSpec {
	indexed := map[int]*models.SortSpec{}

	for key, values := range q {
		m := sortParam.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			verr.add("sort", "invalid sort index %q", m[1])
			continue
		}
		spec, ok := indexed[idx]
		if !ok {
			spec = &models.SortSpec{}
			indexed[idx] = spec
		}
		if m[2] == "field" {
			spec.Field = values[0]
		} else {
			spec.Direction = models.SortDirection(strings.ToLower(values[0]))
		}
	}

	indexes := make([]int, 0, len(indexed))
	for idx := range indexed {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	specs := make([]models.SortSpec, 0, len(indexes))
	for _, idx := range indexes {
		specs = append(specs, *indexed[idx])
	}

	// shorthand: sort=likes:desc,unwan
	for _, raw := range q["sort"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			field, dir, _ := strings.Cut(part, ":")
			if field == "" {
				verr.add("sort", "missing field in %q", part)
				continue
			}
			specs = append(specs, models.SortSpec{Field: field, Direction: models.SortDirection(strings.ToLower(dir))})
		}
	}

	if len(specs) == 0 {
		return nil
	}
	return specs
}

func parseFields(q url.Values) []string {
	var fields []string
	fields = append(fields, q["fields[]"]...)
	for _, raw := range q["fields"] {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}
	return fields
}

// jsonFieldName turns a validator namespace like ListParams.Sort[0].Direction
// into the query parameter name sort[0].direction
func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

func paramSuffix(param string) string {
	if param == "" {
		return ""
	}
	return "=" + param
}

package models

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Record is a single upstream record
type Record struct {
	ID          string                 `json:"id"`
	CreatedTime time.Time              `json:"createdTime"`
	Fields      map[string]interface{} `json:"fields"`
}

// ListResponse is one page of upstream records.
// A non-empty Offset means more pages are available.
type ListResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// SortDirection is the sort order of a field
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec orders a list by one field
type SortSpec struct {
	Field     string        `json:"field" validate:"required"`
	Direction SortDirection `json:"direction,omitempty" validate:"omitempty,oneof=asc desc"`
}

// ListParams are the query parameters of a list request
type ListParams struct {
	PageSize        int        `json:"pageSize" validate:"min=1,max=100"`
	Offset          string     `json:"offset,omitempty"`
	FilterByFormula string     `json:"filterByFormula,omitempty" validate:"max=2000"`
	Sort            []SortSpec `json:"sort,omitempty" validate:"dive"`
	Fields          []string   `json:"fields,omitempty" validate:"dive,required"`
}

// WithOffset returns a copy of the params pointing at another page
func (p ListParams) WithOffset(offset string) ListParams {
	p.Offset = offset
	return p
}

// Query encodes the params in the upstream query-string form.
// Zero values are omitted; url.Values.Encode sorts by key.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.Offset != "" {
		q.Set("offset", p.Offset)
	}
	if p.FilterByFormula != "" {
		q.Set("filterByFormula", p.FilterByFormula)
	}
	for i, s := range p.Sort {
		q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		if s.Direction != "" {
			q.Set(fmt.Sprintf("sort[%d][direction]", i), string(s.Direction))
		}
	}
	for _, f := range p.Fields {
		q.Add("fields[]", f)
	}
	return q
}

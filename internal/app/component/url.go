package component

import (
	"net/url"
)

// Status filter values for the todo list.
const (
	StatusAll  = "all"
	StatusOpen = "open"
	StatusDone = "done"
)

// ListParams holds the current filter and pagination state of the todo list
// page for URL building.
type ListParams struct {
	Status string // StatusOpen, StatusDone, or empty for all
	Page   string // Current page token (empty for first page)
}

// QueryString returns the query string portion of the URL (without leading ?).
func (p ListParams) QueryString() string {
	params := url.Values{}
	if p.Status != "" && p.Status != StatusAll {
		params.Set("status", p.Status)
	}
	if p.Page != "" {
		params.Set("page", p.Page)
	}
	return params.Encode()
}

// BuildURL constructs a full URL with the base path and query parameters.
func (p ListParams) BuildURL(baseURL string) string {
	qs := p.QueryString()
	if qs == "" {
		return baseURL
	}
	return baseURL + "?" + qs
}

// WithStatus returns a copy with the status filter changed.
// This resets pagination since the result set changes.
func (p ListParams) WithStatus(status string) ListParams {
	p.Status = status
	return p.WithoutPagination()
}

// WithoutPagination returns a copy with pagination reset to the first page.
func (p ListParams) WithoutPagination() ListParams {
	p.Page = ""
	return p
}

// WithNextPage returns a copy for navigating to the next page.
func (p ListParams) WithNextPage(nextToken string) ListParams {
	p.Page = nextToken
	return p
}

// Filter returns the CEL filter selecting the todos this status shows.
func (p ListParams) Filter() string {
	switch p.Status {
	case StatusOpen:
		return "!this.complete"
	case StatusDone:
		return "this.complete"
	default:
		return ""
	}
}

// ParseQueryString parses a query string into ListParams. Unknown status
// values show every todo.
func ParseQueryString(qs string) ListParams {
	values, err := url.ParseQuery(qs)
	if err != nil {
		return ListParams{}
	}
	params := ListParams{Page: values.Get("page")}
	switch status := values.Get("status"); status {
	case StatusOpen, StatusDone:
		params.Status = status
	}
	return params
}

package httpx

import (
	"net/http"
	"net/url"
	"strconv"
)

// DefaultPageSize is used when the request carries no limit
const DefaultPageSize = 6

const maxPageSize = 100

// PageRequest is a page-number pagination request
type PageRequest struct {
	Page  int
	Limit int
}

// Offset returns the row offset of the requested page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the paginated response envelope
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ParsePageRequest reads page and limit query parameters
func ParsePageRequest(r *http.Request) PageRequest {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return PageRequest{Page: page, Limit: limit}
}

// NewPage builds the envelope with next/previous links relative to r
func NewPage[T any](r *http.Request, req PageRequest, count int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: count, Results: results}

	if int64(req.Page*req.Limit) < count {
		link := pageLink(r, req.Page+1)
		page.Next = &link
	}
	if req.Page > 1 {
		link := pageLink(r, req.Page-1)
		page.Previous = &link
	}
	return page
}

func pageLink(r *http.Request, page int) string {
	u := url.URL{Path: r.URL.Path}
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if r.Host != "" {
		u.Scheme = scheme
		u.Host = r.Host
	}
	return u.String()
}

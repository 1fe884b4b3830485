// Package paging turns raw list-query parameters into a safe Request and
// wraps a page of results with its metadata.
//
// Query parameters:
//
//	page  — zero-based page index, default 0; negative or unparsable → 0
//	size  — page size, default 20; <1 or unparsable → 400; >100 → 100
//	sort  — repeatable "prop[,prop...][,asc|desc]", e.g. sort=lastName,asc
package paging

import (
	"strings"
)

// Direction is the ordering of one sort key.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order is one sort key.
type Order struct {
	Property  string
	Direction Direction
}

// Request is a sanitized page request.
type Request struct {
	Page int
	Size int
	Sort []Order
}

// Offset is the index of the first element of the page.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Descending reports whether o sorts high-to-low.
func (o Order) Descending() bool {
	return o.Direction == Desc
}

func parseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "asc":
		return Asc, true
	case "desc":
		return Desc, true
	default:
		return "", false
	}
}

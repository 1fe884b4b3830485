package paging

import (
	"cmp"
	"slices"
)

// Page is the list response envelope.
type Page[T any] struct {
	Content []T      `json:"content"`
	Page    Metadata `json:"page"`
}

// Metadata describes where a page sits in the full result set.
type Metadata struct {
	Number           int          `json:"number"`
	Size             int          `json:"size"`
	TotalElements    int64        `json:"totalElements"`
	TotalPages       int          `json:"totalPages"`
	First            bool         `json:"first"`
	Last             bool         `json:"last"`
	NumberOfElements int          `json:"numberOfElements"`
	Sort             []SortedView `json:"sort"`
}

// SortedView is how one applied sort key is reported to clients.
type SortedView struct {
	Property     string    `json:"property"`
	Direction    Direction `json:"direction"`
	IgnoreCase   bool      `json:"ignoreCase"`
	NullHandling string    `json:"nullHandling"`
}

// NewPage wraps content fetched for req, given the total element count.
func NewPage[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	sort := make([]SortedView, 0, len(req.Sort))
	for _, o := range req.Sort {
		sort = append(sort, SortedView{Property: o.Property, Direction: o.Direction, NullHandling: "NATIVE"})
	}

	return Page[T]{
		Content: content,
		Page: Metadata{
			Number:           req.Page,
			Size:             req.Size,
			TotalElements:    total,
			TotalPages:       totalPages,
			First:            req.Page == 0,
			Last:             req.Page+1 >= totalPages,
			NumberOfElements: len(content),
			Sort:             sort,
		},
	}
}

// Comparator compares two elements on a single property.
type Comparator[T any] func(a, b T) int

// Apply sorts items by req.Sort using the per-property comparators and
// returns the requested page slice together with the total count. It is
// meant for in-memory stores; items is sorted in place.
func Apply[T any](items []T, req Request, comparators map[string]Comparator[T]) ([]T, int64) {
	slices.SortStableFunc(items, func(a, b T) int {
		for _, o := range req.Sort {
			cmpFn, ok := comparators[o.Property]
			if !ok {
				continue
			}
			c := cmpFn(a, b)
			if o.Descending() {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	total := int64(len(items))
	start := min(req.Offset(), len(items))
	end := min(start+req.Size, len(items))
	return items[start:end], total
}

// Compare is a Comparator helper for ordered fields.
func Compare[T any, V cmp.Ordered](field func(T) V) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(field(a), field(b))
	}
}

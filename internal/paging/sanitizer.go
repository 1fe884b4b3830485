package paging

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/aanand-mishra/students-api/internal/apperr"
	"github.com/aanand-mishra/students-api/internal/i18n"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	maxPageIndex = math.MaxInt32
)

// Sanitizer validates list-query parameters against a fixed set of
// sortable properties.
type Sanitizer struct {
	defaultSize int
	maxSize     int
	sortable    map[string]struct{}
	defaultSort []Order
}

// NewSanitizer builds a Sanitizer with the default size limits. When no
// sort is requested, defaultSort is applied.
func NewSanitizer(sortable []string, defaultSort ...Order) *Sanitizer {
	s := &Sanitizer{
		defaultSize: DefaultPageSize,
		maxSize:     MaxPageSize,
		sortable:    make(map[string]struct{}, len(sortable)),
		defaultSort: defaultSort,
	}
	for _, p := range sortable {
		s.sortable[p] = struct{}{}
	}
	return s
}

// FromQuery sanitizes page, size and sort from q. Failures are
// *apperr.Error of KindBadRequest.
func (s *Sanitizer) FromQuery(q url.Values) (Request, error) {
	size, err := s.size(q)
	if err != nil {
		return Request{}, err
	}

	sort, err := s.sort(q["sort"])
	if err != nil {
		return Request{}, err
	}

	return Request{Page: page(q.Get("page")), Size: size, Sort: sort}, nil
}

func page(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return min(n, maxPageIndex)
}

func (s *Sanitizer) size(q url.Values) (int, error) {
	if !q.Has("size") {
		return s.defaultSize, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(q.Get("size")))
	if err != nil {
		return 0, apperr.BadRequest(i18n.KeyPageSizeInvalid)
	}
	if n < 1 {
		return 0, apperr.BadRequest(i18n.KeyPageSizeNegative)
	}
	if n > s.maxSize {
		return s.maxSize, nil
	}
	return n, nil
}

func (s *Sanitizer) sort(params []string) ([]Order, error) {
	var orders []Order

	for _, param := range params {
		tokens := splitTokens(param)
		if len(tokens) == 0 {
			continue
		}

		dir := Asc
		if d, ok := parseDirection(tokens[len(tokens)-1]); ok {
			dir = d
			tokens = tokens[:len(tokens)-1]
		}

		for _, prop := range tokens {
			if _, ok := s.sortable[prop]; !ok {
				return nil, apperr.BadRequest(i18n.KeySortInvalid, prop)
			}
			orders = append(orders, Order{Property: prop, Direction: dir})
		}
	}

	if len(orders) == 0 {
		return append([]Order(nil), s.defaultSort...), nil
	}
	return orders, nil
}

func splitTokens(param string) []string {
	var out []string
	for _, tok := range strings.Split(param, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

package repository

import (
	"errors"
	"strings"
)

// ErrInvalidSortField is returned when a caller asks to sort by a field that
// is not on the entity's allow-list. Sorting is interpolated into SQL, so
// anything outside the allow-list must be rejected up front.
var ErrInvalidSortField = errors.New("invalid sort field")

// PageRequest carries zero-based pagination and sorting parameters.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

func (p PageRequest) offset() int {
	if p.Page < 0 {
		return 0
	}
	return p.Page * p.Size
}

// orderClause resolves an API-level sort field against the entity's allowed
// column map and returns a SQL ORDER BY expression.
func orderClause(allowed map[string]string, sortBy, sortDir string) (string, error) {
	column, ok := allowed[sortBy]
	if !ok {
		return "", ErrInvalidSortField
	}

	dir := "asc"
	if strings.EqualFold(sortDir, "desc") {
		dir = "desc"
	}
	return column + " " + dir, nil
}

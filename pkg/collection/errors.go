package collection

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a CRUD miss on a local collection.
type NotFoundError struct {
	Name string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", capitalize(e.Name))
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Record"
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

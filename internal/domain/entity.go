package domain

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength is the width of every name column.
const MaxNameLength = 255

// Entity is implemented by every persisted type. Identifier returns nil until
// the storage layer has assigned an id.
type Entity interface {
	Identifier() *int64
	Validate() error
}

// Patch is a partial update for an entity of type E. Only the fields set on
// the patch are copied onto the target by ApplyTo.
type Patch[E Entity] interface {
	Identifier() *int64
	ApplyTo(target E)
}

// validateName rejects blank names and names wider than their column.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "must not be blank")
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return NewValidationError("name", fmt.Sprintf("must be at most %d characters", MaxNameLength))
	}

	return nil
}

// sameIdentity reports whether two identifiers denote the same persisted row.
// Unassigned identifiers never match.
func sameIdentity(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

// typeHash derives the fixed hash code shared by all instances of a type.
func typeHash(typeName string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(typeName))

	return h.Sum32()
}

func formatID(id *int64) string {
	if id == nil {
		return "null"
	}

	return strconv.FormatInt(*id, 10)
}

// Int64 returns a pointer to v. It keeps fluent construction of identifiers short.
func Int64(v int64) *int64 {
	return &v
}

// Date returns the civil date for year, month, day at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TruncateToDate drops the clock part of t, keeping its calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}

	y, m, d := t.Date()

	return Date(y, m, d)
}

// EntitySet is an ordered collection that holds at most one element per
// identity as defined by the element's Equal method. Elements without an
// identifier are only deduplicated against the same pointer, so adding an
// unsaved entity and later assigning it an id never strands it.
type EntitySet[E interface{ Equal(E) bool }] struct {
	items []E
}

// Add inserts e unless an equal element is already present. It reports
// whether the set changed.
func (s *EntitySet[E]) Add(e E) bool {
	if s.Contains(e) {
		return false
	}

	s.items = append(s.items, e)

	return true
}

// Remove deletes the first element equal to e and reports whether one was found.
func (s *EntitySet[E]) Remove(e E) bool {
	for i, item := range s.items {
		if item.Equal(e) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}

	return false
}

// Contains reports whether an element equal to e is present.
func (s *EntitySet[E]) Contains(e E) bool {
	for _, item := range s.items {
		if item.Equal(e) {
			return true
		}
	}

	return false
}

// Len returns the number of elements.
func (s *EntitySet[E]) Len() int {
	return len(s.items)
}

// Items returns a copy of the elements in insertion order.
func (s *EntitySet[E]) Items() []E {
	out := make([]E, len(s.items))
	copy(out, s.items)

	return out
}

// Clear removes every element.
func (s *EntitySet[E]) Clear() {
	s.items = nil
}

package resource

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSeparator is the boundary convention for joining complex
// subunits into a single string, e.g. "ITGA1_ITGB1".
const DefaultSeparator = "_"

var ErrMalformedEntity = errors.New("malformed complex encoding")

// Entity is one endpoint of an interaction: an ordered sequence of
// gene symbols. A single-element entity is an atomic gene; anything
// longer is a complex whose identity is the subunit sequence itself,
// so two complexes are equal iff their sequences are equal.
type Entity []string

// Atomic wraps a single gene symbol as an entity.
func Atomic(symbol string) Entity {
	return Entity{symbol}
}

func (e Entity) IsComplex() bool {
	return len(e) > 1
}

func (e Entity) Equal(other Entity) bool {
	if len(e) != len(other) {
		return false
	}
	for i := range e {
		if e[i] != other[i] {
			return false
		}
	}
	return true
}

// Encode renders the entity in the boundary string convention,
// subunits joined by sep. An empty sep uses DefaultSeparator.
func (e Entity) Encode(sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}
	return strings.Join(e, sep)
}

// ParseEntity decodes the boundary encoding of an entity. An empty
// string, or an empty subunit between separators, is malformed.
func ParseEntity(s, sep string) (Entity, error) {
	if sep == "" {
		sep = DefaultSeparator
	}
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty entity", ErrMalformedEntity)
	}
	parts := strings.Split(s, sep)
	entity := make(Entity, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedEntity, s)
		}
		entity = append(entity, part)
	}
	return entity, nil
}

package store

import (
	"fmt"

	"github.com/substancehq/substance/internal/docerr"
)

// Diff is a typed, invertible change to a single property value, applied by
// an UpdateOp. Each implementation knows how to produce its own inverse
// given the pre-update value.
type Diff interface {
	// Apply computes the new value and the diff that undoes this one,
	// given the current value of the property.
	Apply(old any) (newVal any, inverse Diff, err error)
	// Kind identifies the diff for its wire form.
	Kind() string
}

// StringSplice deletes Delete runes starting at Pos and inserts Insert in
// their place — a string-splice diff over text property content.
type StringSplice struct {
	Pos    int
	Delete int
	Insert string
}

func (d StringSplice) Kind() string { return "string-splice" }

func (d StringSplice) Apply(old any) (any, Diff, error) {
	s, ok := old.(string)
	if !ok {
		s = ""
	}
	runes := []rune(s)
	if d.Pos < 0 || d.Pos > len(runes) || d.Delete < 0 || d.Pos+d.Delete > len(runes) {
		return nil, nil, fmt.Errorf("%w: string-splice out of range (pos=%d delete=%d len=%d)",
			docerr.ErrInvalidOperation, d.Pos, d.Delete, len(runes))
	}
	deleted := string(runes[d.Pos : d.Pos+d.Delete])
	newRunes := make([]rune, 0, len(runes)-d.Delete+len([]rune(d.Insert)))
	newRunes = append(newRunes, runes[:d.Pos]...)
	newRunes = append(newRunes, []rune(d.Insert)...)
	newRunes = append(newRunes, runes[d.Pos+d.Delete:]...)

	inverse := StringSplice{Pos: d.Pos, Delete: len([]rune(d.Insert)), Insert: deleted}
	return string(newRunes), inverse, nil
}

// ListSplice deletes Delete ids starting at Pos in an ordered reference
// list and inserts Insert in their place. Backs Container.Show/Hide.
type ListSplice struct {
	Pos    int
	Delete int
	Insert []string
}

func (d ListSplice) Kind() string { return "list-splice" }

func (d ListSplice) Apply(old any) (any, Diff, error) {
	list, _ := old.([]string)
	if d.Pos < 0 || d.Pos > len(list) || d.Delete < 0 || d.Pos+d.Delete > len(list) {
		return nil, nil, fmt.Errorf("%w: list-splice out of range (pos=%d delete=%d len=%d)",
			docerr.ErrInvalidOperation, d.Pos, d.Delete, len(list))
	}
	deleted := append([]string(nil), list[d.Pos:d.Pos+d.Delete]...)
	newList := make([]string, 0, len(list)-d.Delete+len(d.Insert))
	newList = append(newList, list[:d.Pos]...)
	newList = append(newList, d.Insert...)
	newList = append(newList, list[d.Pos+d.Delete:]...)

	inverse := ListSplice{Pos: d.Pos, Delete: len(d.Insert), Insert: deleted}
	return newList, inverse, nil
}

// NumberDelta adds Delta to an integer property.
type NumberDelta struct {
	Delta int
}

func (d NumberDelta) Kind() string { return "number-delta" }

func (d NumberDelta) Apply(old any) (any, Diff, error) {
	n, _ := old.(int)
	inverse := NumberDelta{Delta: -d.Delta}
	return n + d.Delta, inverse, nil
}

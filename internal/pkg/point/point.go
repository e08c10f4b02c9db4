// Package point defines the collection point record shared by the store, the codec and the client.
package point

import (
	"fmt"
	"strings"

	"ecocoleta/internal/pkg/category"
)

// FieldSeparator is the wire separator. It never appears inside a field value.
const FieldSeparator = "|"

var fieldReplacer = strings.NewReplacer(
	FieldSeparator, "-",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// Sanitize strips the wire separator and line breaks from a field value and trims it.
func Sanitize(s string) string {
	return strings.TrimSpace(fieldReplacer.Replace(s))
}

// Fields are the mutable attributes of a collection point.
type Fields struct {
	Name       string
	Address    string
	Categories category.Set
	Contact    string
}

// NewFields sanitizes raw values into Fields.
func NewFields(name, address string, categories category.Set, contact string) Fields {
	labels := categories.Labels()
	for i := range labels {
		labels[i] = Sanitize(labels[i])
	}
	return Fields{
		Name:       Sanitize(name),
		Address:    Sanitize(address),
		Categories: category.New(labels...),
		Contact:    Sanitize(contact),
	}
}

// CollectionPoint is a drop-off location accepting a set of waste categories.
type CollectionPoint struct {
	ID int
	Fields
}

// New builds a CollectionPoint from raw values, sanitizing every field.
func New(id int, name, address string, categories category.Set, contact string) CollectionPoint {
	return CollectionPoint{
		ID:     id,
		Fields: NewFields(name, address, categories, contact),
	}
}

// Accepts reports whether the point accepts the category.
func (p CollectionPoint) Accepts(label string) bool {
	return p.Categories.Contains(label)
}

// Equal compares two points field by field, treating categories as a set.
func (p CollectionPoint) Equal(other CollectionPoint) bool {
	return p.ID == other.ID &&
		p.Name == other.Name &&
		p.Address == other.Address &&
		p.Contact == other.Contact &&
		p.Categories.Equal(other.Categories)
}

// Display renders the point for an operator.
func (p CollectionPoint) Display() string {
	return fmt.Sprintf("ID: %d\nName: %s\nAddress: %s\nCategories: %s\nContact: %s\n",
		p.ID, p.Name, p.Address, strings.Join(p.Categories.Labels(), ", "), p.Contact)
}

package descriptor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/reactiveobject/reactivegen/internal/cases"
)

// ErrNoProperties is returned by NewClass when asked to describe a type
// without any properties to generate.
var ErrNoProperties = errors.New("class descriptor requires at least one property")

// Property describes one field-to-property mapping.
type Property struct {
	fieldName     string
	name          string
	accessibility Accessibility
	typ           string
}

// NewProperty creates a property descriptor. Both fieldName and name must
// be legal C# identifiers. The type is copied verbatim and only checked for
// being non-empty.
func NewProperty(fieldName, name string, accessibility Accessibility, typ string) (Property, error) {
	if !cases.IsIdentifier(fieldName) {
		return Property{}, fmt.Errorf("field name %q is not a valid identifier", fieldName)
	}
	if !cases.IsIdentifier(name) {
		return Property{}, fmt.Errorf("property name %q derived from field %q is not a valid identifier", name, fieldName)
	}
	if typ == "" {
		return Property{}, fmt.Errorf("field %q has no type", fieldName)
	}
	return Property{fieldName: fieldName, name: name, accessibility: accessibility, typ: typ}, nil
}

// FieldName is the identifier of the backing field.
func (p Property) FieldName() string { return p.fieldName }

// Name is the identifier of the generated property.
func (p Property) Name() string { return p.name }

// Accessibility is the visibility of the generated property.
func (p Property) Accessibility() Accessibility { return p.accessibility }

// Type is the display string of the field's type.
func (p Property) Type() string { return p.typ }

// Class describes one type that gets a generated partial declaration.
type Class struct {
	name           string
	namespace      string
	fullName       string
	accessibility  Accessibility
	typeParameters []string
	properties     []Property
	containers     []ContainingType
}

// ContainingType is a type that encloses a nested class. Generated code
// repeats each containing type as a partial declaration.
type ContainingType struct {
	Name           string
	Kind           string
	Accessibility  Accessibility
	TypeParameters []string
}

// NewClass creates a class descriptor. The namespace is empty for types in
// the global namespace. At least one property is required; the given
// slices are copied, so the caller may reuse them.
func NewClass(name, namespace, fullName string, accessibility Accessibility, typeParameters []string, properties []Property) (Class, error) {
	if !cases.IsIdentifier(name) {
		return Class{}, fmt.Errorf("type name %q is not a valid identifier", name)
	}
	if len(properties) == 0 {
		return Class{}, fmt.Errorf("%s: %w", fullName, ErrNoProperties)
	}
	for _, tp := range typeParameters {
		if !cases.IsIdentifier(tp) {
			return Class{}, fmt.Errorf("%s: type parameter %q is not a valid identifier", fullName, tp)
		}
	}
	return Class{
		name:           name,
		namespace:      namespace,
		fullName:       fullName,
		accessibility:  accessibility,
		typeParameters: slices.Clone(typeParameters),
		properties:     slices.Clone(properties),
	}, nil
}

// Nested returns a copy of c that is declared inside containers, given
// outermost first.
func (c Class) Nested(containers []ContainingType) (Class, error) {
	for _, ct := range containers {
		if !cases.IsIdentifier(ct.Name) {
			return Class{}, fmt.Errorf("%s: containing type name %q is not a valid identifier", c.fullName, ct.Name)
		}
		switch ct.Kind {
		case "class", "struct", "interface", "record", "record struct":
		default:
			return Class{}, fmt.Errorf("%s: containing type %s has unsupported kind %q", c.fullName, ct.Name, ct.Kind)
		}
		for _, tp := range ct.TypeParameters {
			if !cases.IsIdentifier(tp) {
				return Class{}, fmt.Errorf("%s: type parameter %q of %s is not a valid identifier", c.fullName, tp, ct.Name)
			}
		}
	}
	c.containers = make([]ContainingType, len(containers))
	for i, ct := range containers {
		ct.TypeParameters = slices.Clone(ct.TypeParameters)
		c.containers[i] = ct
	}
	return c, nil
}

// Name is the simple name of the type, without type parameters.
func (c Class) Name() string { return c.name }

// Namespace is the dotted namespace containing the type, or empty.
func (c Class) Namespace() string { return c.namespace }

// FullName uniquely identifies the type within a compilation. It is only
// used for diagnostics.
func (c Class) FullName() string { return c.fullName }

// Accessibility is the declared visibility of the type.
func (c Class) Accessibility() Accessibility { return c.accessibility }

// TypeParameters returns the names of the type's generic parameters.
func (c Class) TypeParameters() []string { return slices.Clone(c.typeParameters) }

// Properties returns the properties to generate, in field declaration
// order.
func (c Class) Properties() []Property { return slices.Clone(c.properties) }

// ContainingTypes returns the types enclosing c, outermost first. It is
// empty for top-level types.
func (c Class) ContainingTypes() []ContainingType {
	out := make([]ContainingType, len(c.containers))
	for i, ct := range c.containers {
		ct.TypeParameters = slices.Clone(ct.TypeParameters)
		out[i] = ct
	}
	return out
}

package scan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reactiveobject/reactivegen/ast"
	"github.com/reactiveobject/reactivegen/descriptor"
	"github.com/reactiveobject/reactivegen/internal/cases"
	"github.com/reactiveobject/reactivegen/reporter"
)

// Type is a declared type that may hold marked fields.
type Type interface {
	// Name is the simple name, without type parameters.
	Name() string
	// Namespace is the dotted containing namespace, or empty for the
	// global namespace.
	Namespace() string
	// FullName identifies the type in the compilation. Types with equal
	// full names are the same type.
	FullName() string
	Accessibility() descriptor.Accessibility
	TypeParameters() []string
	// Fields returns the type's fields in declaration order.
	Fields() []Field
}

// NestedType is implemented by types declared inside other types. Their
// generated code is wrapped in declarations of the containing types.
type NestedType interface {
	Type
	// Pos is the position of the type's name, for diagnostics.
	Pos() ast.SourcePos
	// ContainingTypes lists the enclosing types, outermost first. It
	// returns an error if a partial declaration cannot be added to them.
	ContainingTypes() ([]descriptor.ContainingType, error)
}

// Field is a field member of a Type.
type Field interface {
	Name() string
	// Pos is the position of the field's name, for diagnostics.
	Pos() ast.SourcePos
	Annotations() []Annotation
	// ResolveType returns the display string of the field's type. It
	// returns false when the type could not be resolved.
	ResolveType() (string, bool)
}

// Annotation is one attribute applied to a field.
type Annotation interface {
	Pos() ast.SourcePos
}

// Resolver maps annotations to canonical identities.
type Resolver interface {
	// Marker returns the identity of the marker attribute. It returns
	// false when the marker is not available to the compilation.
	Marker() (string, bool)
	// ResolveAnnotation returns the identity of the attribute type that
	// the annotation refers to, or false if it does not resolve.
	ResolveAnnotation(Annotation) (string, bool)
}

// Option configures a call to Scan.
type Option func(*scanner)

// WithHandler sets the handler that receives warnings, such as a field
// carrying the marker more than once.
func WithHandler(h *reporter.Handler) Option {
	return func(s *scanner) {
		s.handler = h
	}
}

// WithLogger sets the logger for debug output. By default nothing is
// logged.
func WithLogger(l *slog.Logger) Option {
	return func(s *scanner) {
		s.logger = l
	}
}

type scanner struct {
	res     Resolver
	marker  string
	handler *reporter.Handler
	logger  *slog.Logger
}

// Scan returns a descriptor for every type in types that has at least one
// marked field. A field is marked when exactly one of its annotations
// resolves to the marker. Results follow the order of types, and
// properties follow field declaration order.
//
// If the marker is not available, Scan returns no classes and no error.
// Marked fields whose type does not resolve are skipped. Fields that
// cannot give a distinct, valid property name are skipped with a warning,
// and so are nested types whose containers cannot be extended. The
// context is checked between types; once it is done, Scan returns
// ctx.Err() and no classes.
func Scan(ctx context.Context, types []Type, res Resolver, opts ...Option) ([]descriptor.Class, error) {
	s := &scanner{res: res}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.handler == nil {
		s.handler = reporter.NewHandler(nil)
	}

	marker, ok := res.Marker()
	if !ok {
		s.logger.Debug("marker attribute not available, nothing to scan")
		return nil, nil
	}
	s.marker = marker

	seen := make(map[string]struct{}, len(types))
	var classes []descriptor.Class
	for _, typ := range types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := seen[typ.FullName()]; ok {
			continue
		}
		seen[typ.FullName()] = struct{}{}

		class, ok, err := s.scanType(typ)
		if err != nil {
			return nil, err
		}
		if ok {
			classes = append(classes, class)
		}
	}
	return classes, nil
}

func (s *scanner) scanType(typ Type) (descriptor.Class, bool, error) {
	acc := typ.Accessibility()
	var props []descriptor.Property
	for _, fld := range typ.Fields() {
		if !s.isMarked(typ, fld) {
			continue
		}
		typeName, ok := fld.ResolveType()
		if !ok {
			s.logger.Debug("skipping field with unresolved type",
				slog.String("type", typ.FullName()), slog.String("field", fld.Name()))
			continue
		}
		name, ok := s.propertyName(typ, fld)
		if !ok {
			continue
		}
		prop, err := descriptor.NewProperty(fld.Name(), name, acc, typeName)
		if err != nil {
			return descriptor.Class{}, false, fmt.Errorf("%s: %w", typ.FullName(), err)
		}
		props = append(props, prop)
	}
	if len(props) == 0 {
		return descriptor.Class{}, false, nil
	}
	class, err := descriptor.NewClass(typ.Name(), typ.Namespace(), typ.FullName(), acc, typ.TypeParameters(), props)
	if err != nil {
		return descriptor.Class{}, false, err
	}
	if nested, ok := typ.(NestedType); ok {
		containers, err := nested.ContainingTypes()
		if err != nil {
			s.handler.HandleWarningf(nested.Pos(), "properties of %s are not generated: %v", typ.FullName(), err)
			return descriptor.Class{}, false, nil
		}
		if class, err = class.Nested(containers); err != nil {
			return descriptor.Class{}, false, err
		}
	}
	s.logger.Debug("found reactive properties",
		slog.String("type", typ.FullName()), slog.Int("count", len(props)))
	return class, true, nil
}

// propertyName derives the property name for a marked field. Fields whose
// name would be reused unchanged, or would not be an identifier, are
// reported as warnings and skipped.
func (s *scanner) propertyName(typ Type, fld Field) (string, bool) {
	field := fld.Name()
	name := cases.PropertyName(field)
	switch {
	case !cases.IsIdentifier(field):
		// NewProperty rejects it.
		return name, true
	case name == field && len(field) > 1:
		s.handler.HandleWarningf(fld.Pos(), "field %s.%s is skipped: its property would have the same name", typ.FullName(), field)
		return "", false
	case !cases.IsIdentifier(name):
		s.handler.HandleWarningf(fld.Pos(), "field %s.%s is skipped: property name %q is not a valid identifier", typ.FullName(), field, name)
		return "", false
	}
	return name, true
}

func (s *scanner) isMarked(typ Type, fld Field) bool {
	var count int
	for _, ann := range fld.Annotations() {
		id, ok := s.res.ResolveAnnotation(ann)
		if !ok || id != s.marker {
			continue
		}
		count++
		if count == 2 {
			s.handler.HandleWarningf(ann.Pos(), "field %s.%s has more than one marker attribute and is skipped", typ.FullName(), fld.Name())
		}
	}
	return count == 1
}

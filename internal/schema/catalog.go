// Package schema resolves field names to field descriptors over a schema that
// is discovered when a project is opened.
package schema

import (
	"fmt"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// fieldKey identifies a field by owning class and name.
type fieldKey struct {
	class string
	name  string
}

// Catalog is an immutable index of a project's classes and fields. It is
// built once per session and safe to share.
type Catalog struct {
	classes    map[string]string // class name -> base class name
	classOrder []string
	byID       map[int]types.FieldDescriptor
	byName     map[fieldKey]types.FieldDescriptor
	byClass    map[string][]types.FieldDescriptor
}

// NewCatalog indexes classes and fields. Returns ErrDuplicateField when a
// field id or (class, name) pair repeats, ErrUnknownClass when a field or base
// class names a class that is not declared, and ErrInvalidCategory when a
// category is out of range.
func NewCatalog(classes []types.ClassInfo, fields []types.FieldDescriptor) (*Catalog, error) {
	c := &Catalog{
		classes: make(map[string]string, len(classes)),
		byID:    make(map[int]types.FieldDescriptor, len(fields)),
		byName:  make(map[fieldKey]types.FieldDescriptor, len(fields)),
		byClass: make(map[string][]types.FieldDescriptor),
	}
	for _, ci := range classes {
		if ci.Name == "" {
			return nil, fmt.Errorf("class name: %w", types.ErrNullArgument)
		}
		if _, dup := c.classes[ci.Name]; dup {
			return nil, fmt.Errorf("class %q declared twice: %w", ci.Name, types.ErrInvalidProject)
		}
		c.classes[ci.Name] = ci.Base
		c.classOrder = append(c.classOrder, ci.Name)
	}
	for _, ci := range classes {
		if ci.Base == "" {
			continue
		}
		if _, ok := c.classes[ci.Base]; !ok {
			return nil, fmt.Errorf("base %q of class %q: %w", ci.Base, ci.Name, types.ErrUnknownClass)
		}
		if c.IsA(ci.Base, ci.Name) {
			return nil, fmt.Errorf("class %q derives from itself: %w", ci.Name, types.ErrInvalidProject)
		}
	}

	for _, fd := range fields {
		if fd.ID == 0 || fd.Name == "" {
			return nil, fmt.Errorf("field %q: %w", fd.QualifiedName(), types.ErrNullArgument)
		}
		if !fd.Category.Valid() {
			return nil, fmt.Errorf("field %s: %w", fd.QualifiedName(), types.ErrInvalidCategory)
		}
		if _, ok := c.classes[fd.OwningClass]; !ok {
			return nil, fmt.Errorf("field %s: %w", fd.QualifiedName(), types.ErrUnknownClass)
		}
		if _, dup := c.byID[fd.ID]; dup {
			return nil, fmt.Errorf("field id %d: %w", fd.ID, types.ErrDuplicateField)
		}
		key := fieldKey{fd.OwningClass, fd.Name}
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("field %s: %w", fd.QualifiedName(), types.ErrDuplicateField)
		}
		c.byID[fd.ID] = fd
		c.byName[key] = fd
		c.byClass[fd.OwningClass] = append(c.byClass[fd.OwningClass], fd)
	}
	return c, nil
}

// Load builds a Catalog from the session's schema enumeration.
func Load(s types.Session) (*Catalog, error) {
	if s == nil {
		return nil, types.ErrNullArgument
	}
	classes, err := s.Classes()
	if err != nil {
		return nil, fmt.Errorf("enumerating classes: %w", err)
	}
	fields, err := s.Fields()
	if err != nil {
		return nil, fmt.Errorf("enumerating fields: %w", err)
	}
	return NewCatalog(classes, fields)
}

// FindField returns the field called name on class or, failing that, on the
// nearest base class that declares it. The match is case-sensitive. The
// second result is false when no such field exists.
func (c *Catalog) FindField(class, name string) (types.FieldDescriptor, bool) {
	for cls := class; cls != ""; cls = c.classes[cls] {
		if fd, ok := c.byName[fieldKey{cls, name}]; ok {
			return fd, true
		}
	}
	return types.FieldDescriptor{}, false
}

// ResolveField is FindField returning ErrUnknownField when the field is absent.
func (c *Catalog) ResolveField(class, name string) (types.FieldDescriptor, error) {
	if class == "" || name == "" {
		return types.FieldDescriptor{}, types.ErrNullArgument
	}
	fd, ok := c.FindField(class, name)
	if !ok {
		return types.FieldDescriptor{}, fmt.Errorf("%s.%s: %w", class, name, types.ErrUnknownField)
	}
	return fd, nil
}

// Describe returns the descriptor registered under id.
// Returns ErrUnknownField if id is not registered.
func (c *Catalog) Describe(id int) (types.FieldDescriptor, error) {
	fd, ok := c.byID[id]
	if !ok {
		return types.FieldDescriptor{}, fmt.Errorf("field id %d: %w", id, types.ErrUnknownField)
	}
	return fd, nil
}

// DescribeFor returns the descriptor for id after checking that objects of
// class may carry it. Returns ErrWrongObjectClass when class neither is nor
// derives from the field's owning class.
func (c *Catalog) DescribeFor(class string, id int) (types.FieldDescriptor, error) {
	fd, err := c.Describe(id)
	if err != nil {
		return fd, err
	}
	if !c.IsA(class, fd.OwningClass) {
		return fd, fmt.Errorf("%s on %q: %w", fd.QualifiedName(), class, types.ErrWrongObjectClass)
	}
	return fd, nil
}

// FieldsForClass returns the fields declared on class, in declaration order.
// Inherited fields are not included.
func (c *Catalog) FieldsForClass(class string) []types.FieldDescriptor {
	fields := c.byClass[class]
	out := make([]types.FieldDescriptor, len(fields))
	copy(out, fields)
	return out
}

// AllFieldsForClass returns the fields declared on class or any of its base
// classes, base classes first.
func (c *Catalog) AllFieldsForClass(class string) []types.FieldDescriptor {
	var chain []string
	for cls := class; cls != ""; cls = c.classes[cls] {
		if _, ok := c.classes[cls]; !ok {
			break
		}
		chain = append([]string{cls}, chain...)
	}
	var out []types.FieldDescriptor
	for _, cls := range chain {
		out = append(out, c.byClass[cls]...)
	}
	return out
}

// CustomFieldsForClass is AllFieldsForClass restricted to custom fields.
func (c *Catalog) CustomFieldsForClass(class string) []types.FieldDescriptor {
	var out []types.FieldDescriptor
	for _, fd := range c.AllFieldsForClass(class) {
		if fd.IsCustom {
			out = append(out, fd)
		}
	}
	return out
}

// IsA reports whether class is ancestor or derives from it.
func (c *Catalog) IsA(class, ancestor string) bool {
	if class == "" || ancestor == "" {
		return false
	}
	seen := make(map[string]bool)
	for cls := class; cls != "" && !seen[cls]; cls = c.classes[cls] {
		if cls == ancestor {
			return true
		}
		seen[cls] = true
	}
	return false
}

// HasClass reports whether class is declared.
func (c *Catalog) HasClass(class string) bool {
	_, ok := c.classes[class]
	return ok
}

// Classes returns the declared classes in declaration order.
func (c *Catalog) Classes() []types.ClassInfo {
	out := make([]types.ClassInfo, 0, len(c.classOrder))
	for _, name := range c.classOrder {
		out = append(out, types.ClassInfo{Name: name, Base: c.classes[name]})
	}
	return out
}

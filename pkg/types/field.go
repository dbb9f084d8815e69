package types

// FieldDescriptor identifies one attribute definition. Descriptors are
// immutable once loaded and safe to share.
type FieldDescriptor struct {
	ID          int      // Stable numeric identifier, unique within the project.
	OwningClass string   // Class the field is declared on (e.g. "Entry").
	Name        string   // Human-readable name, unique within OwningClass.
	Category    Category // Storage category; never changes.
	IsCustom    bool     // True for project-defined fields.
	Role        Role     // Linguistic role; multilingual fields only.
	ListID      string   // Possibility list referenced by select and tags fields.
	Description string   // Optional help text.
}

// QualifiedName returns "Class.Name".
func (f FieldDescriptor) QualifiedName() string {
	return f.OwningClass + "." + f.Name
}

// ClassInfo describes one object class. Base is empty for root classes.
type ClassInfo struct {
	Name string
	Base string
}

// Object is the canonical reference to a domain object. It is produced once at
// the boundary (from a numeric id) and passed unchanged to every component.
type Object struct {
	ID    int64
	Class string
}

// IsZero reports whether the reference is absent.
func (o Object) IsZero() bool {
	return o.ID == 0
}

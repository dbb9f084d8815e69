package types

// Session is an open project as seen by the field access layer. The session
// owns the storage engine, the writing-system registry and the schema; the
// access layer only reads them and mutates values through Store.
type Session interface {
	// OpenForWrite reports whether the project accepts writes.
	OpenForWrite() bool

	// Classes enumerates the object classes and their base classes.
	Classes() ([]ClassInfo, error)

	// Fields enumerates every field definition in declaration order.
	Fields() ([]FieldDescriptor, error)

	// WritingSystems returns the ordered vernacular and analysis lists.
	// The first entry of each list is that list's default.
	WritingSystems() (vernacular, analysis []WritingSystem, err error)

	// PossibilityList returns the list with the given ID.
	// Returns ErrUnknownList if no such list exists.
	PossibilityList(id string) (*PossibilityList, error)

	// Object returns the object with the given ID.
	// Returns ErrObjectNotFound if it does not exist.
	Object(id int64) (Object, error)

	// Objects enumerates every object ordered by ID.
	Objects() ([]Object, error)

	// Store returns the raw value store for this session.
	Store() ValueStore
}

// Backend is a session with an explicit lifecycle: Attach opens the storage
// named by a Config and Detach releases it.
type Backend interface {
	Session
	ObjectCreator
	Attach(config Config) error
	Detach() error
}

// ObjectCreator is implemented by sessions that can add objects.
type ObjectCreator interface {
	// CreateObject adds an object of the given class with the next free ID.
	// Returns ErrUnknownClass for an undeclared class and ErrReadOnlyProject
	// when the session is read-only.
	CreateObject(class string) (Object, error)
}

// ValueStore is the raw get/set-by-id primitive of the project. Each call is
// atomic for one field on one object. It performs no schema validation:
// callers pass the category-appropriate method for each field.
type ValueStore interface {
	// GetString returns plain text. A field that was never set reads as
	// NullMarker.
	GetString(obj int64, field int) (string, error)
	// SetString stores plain text; the empty string removes the value.
	SetString(obj int64, field int, text string) error

	// GetMultiString returns one alternative, or "" if absent.
	GetMultiString(obj int64, field int, ws int) (string, error)
	// GetMultiStrings returns every alternative keyed by writing-system handle.
	GetMultiStrings(obj int64, field int) (map[int]string, error)
	// SetMultiString stores one alternative; the empty string removes it.
	SetMultiString(obj int64, field int, ws int, text string) error
	// ReplaceMultiStrings replaces every alternative of the field.
	ReplaceMultiStrings(obj int64, field int, values map[int]string) error

	// GetInteger returns the stored integer, 0 when unset.
	GetInteger(obj int64, field int) (int64, error)
	// SetInteger stores an integer.
	SetInteger(obj int64, field int, value int64) error

	// GetDate returns the stored date, the zero GenDate when unset.
	GetDate(obj int64, field int) (GenDate, error)
	// SetDate stores a date; the zero GenDate removes the value.
	SetDate(obj int64, field int, value GenDate) error

	// GetReferences returns referenced item IDs in stored order.
	GetReferences(obj int64, field int) ([]string, error)
	// ReplaceReferences replaces the whole reference list.
	ReplaceReferences(obj int64, field int, itemIDs []string) error

	// ClearField removes every stored value of the field on the object.
	ClearField(obj int64, field int) error
}

// Package fields reads and writes field values on domain objects, dispatching
// on the storage category each field was declared with.
package fields

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexfields/internal/schema"
	"github.com/mesh-intelligence/lexfields/internal/wsys"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// Marshaller is the category dispatcher over a session's value store. It holds
// no mutable state of its own; callers serialize writes to one session.
type Marshaller struct {
	session types.Session
	store   types.ValueStore
	catalog *schema.Catalog
	ws      *wsys.Resolver
	lists   *ListEditor
}

// NewMarshaller returns a Marshaller over session using the given catalog and
// writing-system resolver.
func NewMarshaller(session types.Session, catalog *schema.Catalog, resolver *wsys.Resolver) (*Marshaller, error) {
	if session == nil || catalog == nil || resolver == nil {
		return nil, types.ErrNullArgument
	}
	store := session.Store()
	if store == nil {
		return nil, fmt.Errorf("value store: %w", types.ErrNullArgument)
	}
	m := &Marshaller{
		session: session,
		store:   store,
		catalog: catalog,
		ws:      resolver,
	}
	m.lists = &ListEditor{m: m}
	return m, nil
}

// Lists returns the editor for select and tags fields.
func (m *Marshaller) Lists() *ListEditor {
	return m.lists
}

// Catalog returns the schema catalog the marshaller resolves fields with.
func (m *Marshaller) Catalog() *schema.Catalog {
	return m.catalog
}

// Resolver returns the writing-system resolver used for multilingual fields.
func (m *Marshaller) Resolver() *wsys.Resolver {
	return m.ws
}

// Object resolves a numeric object id to a canonical object reference.
// Returns ErrObjectNotFound if the session has no such object.
func (m *Marshaller) Object(id int64) (types.Object, error) {
	if id == 0 {
		return types.Object{}, types.ErrNullArgument
	}
	obj, err := m.session.Object(id)
	if err != nil {
		return types.Object{}, fmt.Errorf("object %d: %w", id, err)
	}
	return obj, nil
}

// access describes whether an operation mutates the store.
type access bool

const (
	readAccess  access = false
	writeAccess access = true
)

// prepare checks the preconditions shared by every operation, in order:
// missing arguments, write permission, field id, object existence and class,
// then category. Nothing here mutates the store.
func (m *Marshaller) prepare(op string, obj types.Object, fieldID int, mode access, allowed ...types.Category) (types.FieldDescriptor, error) {
	label := "field " + strconv.Itoa(fieldID)
	if obj.IsZero() || fieldID == 0 {
		return types.FieldDescriptor{}, &types.FieldError{Op: op, Field: label, Err: types.ErrNullArgument}
	}
	if mode == writeAccess && !m.session.OpenForWrite() {
		return types.FieldDescriptor{}, &types.FieldError{Op: op, Field: label, Err: types.ErrReadOnlyProject}
	}
	fd, err := m.catalog.Describe(fieldID)
	if err != nil {
		return fd, &types.FieldError{Op: op, Field: label, Err: err}
	}
	label = fd.QualifiedName()

	actual, err := m.session.Object(obj.ID)
	if err != nil {
		if errors.Is(err, types.ErrObjectNotFound) {
			err = fmt.Errorf("object %d: %w: %w", obj.ID, types.ErrWrongObjectClass, err)
		}
		return fd, &types.FieldError{Op: op, Field: label, Err: err}
	}
	if obj.Class != "" && obj.Class != actual.Class {
		return fd, &types.FieldError{Op: op, Field: label,
			Err: fmt.Errorf("object %d is %s, not %s: %w", obj.ID, actual.Class, obj.Class, types.ErrWrongObjectClass)}
	}
	if !m.catalog.IsA(actual.Class, fd.OwningClass) {
		return fd, &types.FieldError{Op: op, Field: label,
			Err: fmt.Errorf("object %d is %s: %w", obj.ID, actual.Class, types.ErrWrongObjectClass)}
	}
	if len(allowed) > 0 && !slices.Contains(allowed, fd.Category) {
		return fd, &types.FieldError{Op: op, Field: label,
			Err: fmt.Errorf("%s field: %w", fd.Category, types.ErrCategoryMismatch)}
	}
	return fd, nil
}

// fieldLabel names a field for errors raised before prepare has run.
func (m *Marshaller) fieldLabel(fieldID int) string {
	if fd, err := m.catalog.Describe(fieldID); err == nil {
		return fd.QualifiedName()
	}
	return "field " + strconv.Itoa(fieldID)
}

// storeError wraps a failure of the underlying store.
func storeError(op string, fd types.FieldDescriptor, err error) error {
	return &types.FieldError{Op: op, Field: fd.QualifiedName(), Err: err}
}

// logWrite records a successful mutation.
func logWrite(op string, obj types.Object, fd types.FieldDescriptor, fields ...zap.Field) {
	zap.L().Debug(op,
		append([]zap.Field{
			zap.Int64("object", obj.ID),
			zap.String("field", fd.QualifiedName()),
			zap.Stringer("category", fd.Category),
		}, fields...)...)
}

// Read returns the value of any field in its category's Go type: string,
// types.MultilingualValue, int64, types.GenDate, or []types.PossibilityItem
// for select and tags fields.
func (m *Marshaller) Read(obj types.Object, fieldID int) (any, error) {
	const op = "read"
	fd, err := m.prepare(op, obj, fieldID, readAccess)
	if err != nil {
		return nil, err
	}
	switch fd.Category {
	case types.CategoryScalarText:
		return m.readString(op, obj, fd)
	case types.CategoryMultilingualText:
		return m.readAllMultiString(op, obj, fd)
	case types.CategoryInteger:
		return m.readInteger(op, obj, fd)
	case types.CategoryDate:
		return m.readDate(op, obj, fd)
	case types.CategorySingleSelect, types.CategoryMultiSelect:
		return m.lists.selected(op, obj, fd)
	default:
		return nil, &types.FieldError{Op: op, Field: fd.QualifiedName(), Err: types.ErrInvalidCategory}
	}
}

// Write stores value in any field. The value's Go type must match the field's
// category: string for text; types.MultilingualValue for multitext (replacing
// every alternative); int64, int or int32 for integer; types.GenDate or
// time.Time (exact) for date; a string, types.PossibilityItem or nil for
// select; []string or []types.PossibilityItem for tags. Any other
// combination fails with ErrCategoryMismatch before the store is touched.
func (m *Marshaller) Write(obj types.Object, fieldID int, value any) error {
	const op = "write"
	fd, err := m.prepare(op, obj, fieldID, writeAccess)
	if err != nil {
		return err
	}
	mismatch := func() error {
		return &types.FieldError{Op: op, Field: fd.QualifiedName(),
			Err: fmt.Errorf("%T for %s field: %w", value, fd.Category, types.ErrCategoryMismatch)}
	}

	switch fd.Category {
	case types.CategoryScalarText:
		s, ok := value.(string)
		if !ok {
			return mismatch()
		}
		return m.writeString(op, obj, fd, s)
	case types.CategoryMultilingualText:
		v, ok := value.(types.MultilingualValue)
		if !ok {
			return mismatch()
		}
		return m.writeAllMultiString(op, obj, fd, v)
	case types.CategoryInteger:
		switch n := value.(type) {
		case int64:
			return m.writeInteger(op, obj, fd, n)
		case int:
			return m.writeInteger(op, obj, fd, int64(n))
		case int32:
			return m.writeInteger(op, obj, fd, int64(n))
		default:
			return mismatch()
		}
	case types.CategoryDate:
		switch d := value.(type) {
		case types.GenDate:
			return m.writeDate(op, obj, fd, d)
		case time.Time:
			return m.writeDate(op, obj, fd, types.GenDate{Date: d, Precision: types.PrecisionExact})
		default:
			return mismatch()
		}
	case types.CategorySingleSelect:
		switch value.(type) {
		case nil:
			return m.lists.replace(op, obj, fd, nil)
		case string, types.PossibilityItem, *types.PossibilityItem:
			return m.lists.setSingle(op, obj, fd, value)
		default:
			return mismatch()
		}
	case types.CategoryMultiSelect:
		switch items := value.(type) {
		case []string:
			refs := make([]any, len(items))
			for i, s := range items {
				refs[i] = s
			}
			return m.lists.setTags(op, obj, fd, refs)
		case []types.PossibilityItem:
			refs := make([]any, len(items))
			for i, it := range items {
				refs[i] = it
			}
			return m.lists.setTags(op, obj, fd, refs)
		default:
			return mismatch()
		}
	default:
		return &types.FieldError{Op: op, Field: fd.QualifiedName(), Err: types.ErrInvalidCategory}
	}
}

// Clear resets a field to its empty value: text and multitext lose their text,
// integers become 0, dates become unknown, and select and tags fields lose
// their selection. Every stored value of the field is removed, including
// alternatives in writing systems the project no longer has. Clearing an
// empty field succeeds.
func (m *Marshaller) Clear(obj types.Object, fieldID int) error {
	const op = "clear"
	fd, err := m.prepare(op, obj, fieldID, writeAccess)
	if err != nil {
		return err
	}
	if !fd.Category.Valid() {
		return &types.FieldError{Op: op, Field: fd.QualifiedName(), Err: types.ErrInvalidCategory}
	}
	if err := m.store.ClearField(obj.ID, fd.ID); err != nil {
		return storeError(op, fd, err)
	}
	logWrite(op, obj, fd)
	return nil
}

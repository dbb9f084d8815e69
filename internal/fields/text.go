package fields

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexfields/internal/wsys"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// ReadString returns the text of a plain text field, or "" if it was never set.
func (m *Marshaller) ReadString(obj types.Object, fieldID int) (string, error) {
	const op = "read text"
	fd, err := m.prepare(op, obj, fieldID, readAccess, types.CategoryScalarText)
	if err != nil {
		return "", err
	}
	return m.readString(op, obj, fd)
}

func (m *Marshaller) readString(op string, obj types.Object, fd types.FieldDescriptor) (string, error) {
	s, err := m.store.GetString(obj.ID, fd.ID)
	if err != nil {
		return "", storeError(op, fd, err)
	}
	return wsys.Normalize(s), nil
}

// WriteString stores the text of a plain text field. Writing "" clears it.
// The null marker is stored as "" since it would read back empty anyway.
func (m *Marshaller) WriteString(obj types.Object, fieldID int, text string) error {
	const op = "write text"
	fd, err := m.prepare(op, obj, fieldID, writeAccess, types.CategoryScalarText)
	if err != nil {
		return err
	}
	return m.writeString(op, obj, fd, text)
}

func (m *Marshaller) writeString(op string, obj types.Object, fd types.FieldDescriptor, text string) error {
	text = wsys.Normalize(text)
	if err := m.store.SetString(obj.ID, fd.ID, text); err != nil {
		return storeError(op, fd, err)
	}
	logWrite(op, obj, fd, zap.Int("length", len(text)))
	return nil
}

// writingSystem resolves the writing system a multitext operation targets.
// A nil reference selects the default of the field's role; fields without a
// role require an explicit writing system.
func (m *Marshaller) writingSystem(op string, fd types.FieldDescriptor, ref any) (types.WritingSystem, error) {
	if ref == nil {
		ws, ok := m.ws.Default(fd.Role)
		if !ok {
			return ws, &types.FieldError{Op: op, Field: fd.QualifiedName(),
				Err: fmt.Errorf("writing system (field has no default role): %w", types.ErrNullArgument)}
		}
		return ws, nil
	}
	ws, err := m.ws.Resolve(ref)
	if err != nil {
		return ws, &types.FieldError{Op: op, Field: fd.QualifiedName(), Err: err}
	}
	return ws, nil
}

// ReadMultiString returns one alternative of a multitext field, or "" when the
// field has no text in that writing system. ws is a tag, handle or
// types.WritingSystem; nil selects the default for the field's role.
func (m *Marshaller) ReadMultiString(obj types.Object, fieldID int, ws any) (string, error) {
	const op = "read multitext"
	if err := m.requireWritingSystem(op, fieldID, ws); err != nil {
		return "", err
	}
	fd, err := m.prepare(op, obj, fieldID, readAccess, types.CategoryMultilingualText)
	if err != nil {
		return "", err
	}
	w, err := m.writingSystem(op, fd, ws)
	if err != nil {
		return "", err
	}
	s, err := m.store.GetMultiString(obj.ID, fd.ID, w.Handle)
	if err != nil {
		return "", storeError(op, fd, err)
	}
	return wsys.Normalize(s), nil
}

// ReadAllMultiString returns every non-empty alternative of a multitext field
// keyed by writing-system tag.
func (m *Marshaller) ReadAllMultiString(obj types.Object, fieldID int) (types.MultilingualValue, error) {
	const op = "read multitext"
	fd, err := m.prepare(op, obj, fieldID, readAccess, types.CategoryMultilingualText)
	if err != nil {
		return nil, err
	}
	return m.readAllMultiString(op, obj, fd)
}

func (m *Marshaller) readAllMultiString(op string, obj types.Object, fd types.FieldDescriptor) (types.MultilingualValue, error) {
	raw, err := m.store.GetMultiStrings(obj.ID, fd.ID)
	if err != nil {
		return nil, storeError(op, fd, err)
	}
	out := make(types.MultilingualValue, len(raw))
	for handle, s := range raw {
		if s = wsys.Normalize(s); s == "" {
			continue
		}
		ws, err := m.ws.ResolveHandle(handle)
		if err != nil {
			zap.L().Warn("skipping alternative in unregistered writing system",
				zap.Int64("object", obj.ID),
				zap.String("field", fd.QualifiedName()),
				zap.Int("handle", handle))
			continue
		}
		out[ws.Tag] = s
	}
	return out, nil
}

// WriteMultiString stores one alternative of a multitext field. Writing ""
// removes the alternative instead of storing an empty string. ws follows the
// rules of ReadMultiString.
func (m *Marshaller) WriteMultiString(obj types.Object, fieldID int, ws any, text string) error {
	const op = "write multitext"
	if err := m.requireWritingSystem(op, fieldID, ws); err != nil {
		return err
	}
	fd, err := m.prepare(op, obj, fieldID, writeAccess, types.CategoryMultilingualText)
	if err != nil {
		return err
	}
	w, err := m.writingSystem(op, fd, ws)
	if err != nil {
		return err
	}
	text = wsys.Normalize(text)
	if err := m.store.SetMultiString(obj.ID, fd.ID, w.Handle, text); err != nil {
		return storeError(op, fd, err)
	}
	logWrite(op, obj, fd, zap.String("ws", w.Tag), zap.Int("length", len(text)))
	return nil
}

// WriteAllMultiString replaces every alternative of a multitext field with v.
// Every tag in v is resolved before the store is touched; empty alternatives
// are dropped.
func (m *Marshaller) WriteAllMultiString(obj types.Object, fieldID int, v types.MultilingualValue) error {
	const op = "write multitext"
	fd, err := m.prepare(op, obj, fieldID, writeAccess, types.CategoryMultilingualText)
	if err != nil {
		return err
	}
	return m.writeAllMultiString(op, obj, fd, v)
}

func (m *Marshaller) writeAllMultiString(op string, obj types.Object, fd types.FieldDescriptor, v types.MultilingualValue) error {
	byHandle, err := m.alternatives(op, fd, v)
	if err != nil {
		return err
	}
	if err := m.store.ReplaceMultiStrings(obj.ID, fd.ID, byHandle); err != nil {
		return storeError(op, fd, err)
	}
	logWrite(op, obj, fd, zap.Int("alternatives", len(byHandle)))
	return nil
}

// alternatives resolves every tag of v to its writing-system handle and drops
// empty alternatives. Two tags naming the same writing system, such as "en"
// and "EN", are rejected even when one of them is empty.
func (m *Marshaller) alternatives(op string, fd types.FieldDescriptor, v types.MultilingualValue) (map[int]string, error) {
	byHandle := make(map[int]string, len(v))
	seen := make(map[int]string, len(v))
	for _, tag := range slices.Sorted(maps.Keys(v)) {
		ws, err := m.ws.ResolveTag(tag)
		if err != nil {
			return nil, &types.FieldError{Op: op, Field: fd.QualifiedName(), Err: err}
		}
		if prev, dup := seen[ws.Handle]; dup {
			return nil, &types.FieldError{Op: op, Field: fd.QualifiedName(),
				Err: fmt.Errorf("%q and %q: %w", prev, tag, types.ErrDuplicateAlternative)}
		}
		seen[ws.Handle] = tag
		if s := wsys.Normalize(v[tag]); s != "" {
			byHandle[ws.Handle] = s
		}
	}
	return byHandle, nil
}

// requireWritingSystem rejects a nil writing system on a multitext field that
// has no role to supply a default. It consults only the catalog so the
// argument error is reported before the object is looked up.
func (m *Marshaller) requireWritingSystem(op string, fieldID int, ref any) error {
	if ref != nil {
		return nil
	}
	fd, err := m.catalog.Describe(fieldID)
	if err != nil || fd.Category != types.CategoryMultilingualText {
		return nil
	}
	if _, ok := m.ws.Default(fd.Role); ok {
		return nil
	}
	return &types.FieldError{Op: op, Field: fd.QualifiedName(),
		Err: fmt.Errorf("writing system (field has no default role): %w", types.ErrNullArgument)}
}

// BestString returns the most useful text of a text or multitext field: the
// first analysis alternative, then the first vernacular one, else "".
func (m *Marshaller) BestString(obj types.Object, fieldID int) (string, error) {
	const op = "best string"
	fd, err := m.prepare(op, obj, fieldID, readAccess, types.CategoryMultilingualText, types.CategoryScalarText)
	if err != nil {
		return "", err
	}
	if fd.Category == types.CategoryScalarText {
		return m.readString(op, obj, fd)
	}
	v, err := m.readAllMultiString(op, obj, fd)
	if err != nil {
		return "", err
	}
	return m.ws.BestString(v), nil
}

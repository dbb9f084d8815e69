package fields

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// ListEditor edits select and tags fields. The store only replaces whole
// reference lists, so every mutation here is a validated read-modify-write.
// Items are referenced by a string (item ID, name or abbreviation), a
// types.PossibilityItem, or a pointer to one.
type ListEditor struct {
	m *Marshaller
}

// SetSingle selects item in a select field, replacing any previous selection.
// Returns ErrInvalidListItem if item is not in the field's list; the stored
// selection is unchanged in that case.
func (e *ListEditor) SetSingle(obj types.Object, fieldID int, item any) error {
	const op = "set single"
	if err := e.requireItems(op, fieldID, item); err != nil {
		return err
	}
	fd, err := e.m.prepare(op, obj, fieldID, writeAccess, types.CategorySingleSelect)
	if err != nil {
		return err
	}
	return e.setSingle(op, obj, fd, item)
}

// ClearSingle empties a select field. Clearing an empty field succeeds.
func (e *ListEditor) ClearSingle(obj types.Object, fieldID int) error {
	const op = "clear single"
	fd, err := e.m.prepare(op, obj, fieldID, writeAccess, types.CategorySingleSelect)
	if err != nil {
		return err
	}
	return e.replace(op, obj, fd, nil)
}

// AddTag adds item to a tags field. Adding an item that is already selected
// is a no-op.
func (e *ListEditor) AddTag(obj types.Object, fieldID int, item any) error {
	const op = "add tag"
	if err := e.requireItems(op, fieldID, item); err != nil {
		return err
	}
	fd, err := e.m.prepare(op, obj, fieldID, writeAccess, types.CategoryMultiSelect)
	if err != nil {
		return err
	}
	list, err := e.list(op, fd)
	if err != nil {
		return err
	}
	it, err := e.resolveItem(op, fd, list, item)
	if err != nil {
		return err
	}
	ids, err := e.m.store.GetReferences(obj.ID, fd.ID)
	if err != nil {
		return storeError(op, fd, err)
	}
	if slices.Contains(ids, it.ID) {
		zap.L().Debug("tag already selected",
			zap.Int64("object", obj.ID),
			zap.String("field", fd.QualifiedName()),
			zap.String("item", it.Name))
		return nil
	}
	return e.replace(op, obj, fd, append(ids, it.ID))
}

// RemoveTag removes item from a tags field. Removing an item that is not
// selected is a no-op, including an item the list does not know: a raw item
// ID that is still stored is removed even if the list no longer has it.
func (e *ListEditor) RemoveTag(obj types.Object, fieldID int, item any) error {
	const op = "remove tag"
	if err := e.requireItems(op, fieldID, item); err != nil {
		return err
	}
	fd, err := e.m.prepare(op, obj, fieldID, writeAccess, types.CategoryMultiSelect)
	if err != nil {
		return err
	}
	list, err := e.list(op, fd)
	if err != nil {
		return err
	}
	id, err := e.itemID(op, fd, list, item)
	if err != nil {
		return err
	}
	ids, err := e.m.store.GetReferences(obj.ID, fd.ID)
	if err != nil {
		return storeError(op, fd, err)
	}
	i := slices.Index(ids, id)
	if i < 0 {
		zap.L().Debug("tag not selected",
			zap.Int64("object", obj.ID),
			zap.String("field", fd.QualifiedName()),
			zap.String("item", id))
		return nil
	}
	return e.replace(op, obj, fd, slices.Delete(ids, i, i+1))
}

// SetTags replaces the selection of a tags field with items, in the given
// order. Duplicates are dropped. Every item is validated before the store is
// touched.
func (e *ListEditor) SetTags(obj types.Object, fieldID int, items ...any) error {
	const op = "set tags"
	if err := e.requireItems(op, fieldID, items...); err != nil {
		return err
	}
	fd, err := e.m.prepare(op, obj, fieldID, writeAccess, types.CategoryMultiSelect)
	if err != nil {
		return err
	}
	return e.setTags(op, obj, fd, items)
}

// ClearTags empties a tags field.
func (e *ListEditor) ClearTags(obj types.Object, fieldID int) error {
	const op = "clear tags"
	fd, err := e.m.prepare(op, obj, fieldID, writeAccess, types.CategoryMultiSelect)
	if err != nil {
		return err
	}
	return e.replace(op, obj, fd, nil)
}

// GetSelected returns the selected items of a select or tags field in stored
// order. A select field yields at most one item. A stored reference to an
// item the list no longer has is returned with only its ID and list ID set.
func (e *ListEditor) GetSelected(obj types.Object, fieldID int) ([]types.PossibilityItem, error) {
	const op = "get selected"
	fd, err := e.m.prepare(op, obj, fieldID, readAccess, types.CategorySingleSelect, types.CategoryMultiSelect)
	if err != nil {
		return nil, err
	}
	return e.selected(op, obj, fd)
}

func (e *ListEditor) selected(op string, obj types.Object, fd types.FieldDescriptor) ([]types.PossibilityItem, error) {
	list, err := e.list(op, fd)
	if err != nil {
		return nil, err
	}
	ids, err := e.m.store.GetReferences(obj.ID, fd.ID)
	if err != nil {
		return nil, storeError(op, fd, err)
	}
	if fd.Category == types.CategorySingleSelect && len(ids) > 1 {
		ids = ids[:1]
	}
	items := make([]types.PossibilityItem, 0, len(ids))
	for _, id := range ids {
		it, ok := list.ItemByID(id)
		if !ok {
			zap.L().Warn("selected item missing from list",
				zap.Int64("object", obj.ID),
				zap.String("field", fd.QualifiedName()),
				zap.String("item", id))
			it = types.PossibilityItem{ID: id, ListID: list.ID}
		}
		items = append(items, it)
	}
	return items, nil
}

func (e *ListEditor) setSingle(op string, obj types.Object, fd types.FieldDescriptor, item any) error {
	list, err := e.list(op, fd)
	if err != nil {
		return err
	}
	it, err := e.resolveItem(op, fd, list, item)
	if err != nil {
		return err
	}
	return e.replace(op, obj, fd, []string{it.ID})
}

func (e *ListEditor) setTags(op string, obj types.Object, fd types.FieldDescriptor, items []any) error {
	list, err := e.list(op, fd)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		it, err := e.resolveItem(op, fd, list, item)
		if err != nil {
			return err
		}
		if !slices.Contains(ids, it.ID) {
			ids = append(ids, it.ID)
		}
	}
	return e.replace(op, obj, fd, ids)
}

// replace stores ids as the field's whole selection.
func (e *ListEditor) replace(op string, obj types.Object, fd types.FieldDescriptor, ids []string) error {
	if err := e.m.store.ReplaceReferences(obj.ID, fd.ID, ids); err != nil {
		return storeError(op, fd, err)
	}
	logWrite(op, obj, fd, zap.Strings("items", ids))
	return nil
}

// list returns the possibility list a select or tags field draws from.
func (e *ListEditor) list(op string, fd types.FieldDescriptor) (*types.PossibilityList, error) {
	list, err := e.m.session.PossibilityList(fd.ListID)
	if err != nil {
		return nil, &types.FieldError{Op: op, Field: fd.QualifiedName(), Err: err}
	}
	return list, nil
}

// missingItem reports a nil or empty item reference.
func missingItem(ref any) bool {
	switch v := ref.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case *types.PossibilityItem:
		return v == nil
	}
	return false
}

// requireItems rejects missing item references before the object or the list
// is looked up.
func (e *ListEditor) requireItems(op string, fieldID int, refs ...any) error {
	for _, ref := range refs {
		if missingItem(ref) {
			return &types.FieldError{Op: op, Field: e.m.fieldLabel(fieldID), Err: types.ErrNullArgument}
		}
	}
	return nil
}

// resolveItem maps an item reference to a member of list.
func (e *ListEditor) resolveItem(op string, fd types.FieldDescriptor, list *types.PossibilityList, ref any) (types.PossibilityItem, error) {
	fail := func(err error) (types.PossibilityItem, error) {
		return types.PossibilityItem{}, &types.FieldError{Op: op, Field: fd.QualifiedName(), Err: err}
	}
	switch v := ref.(type) {
	case nil:
		return fail(types.ErrNullArgument)
	case *types.PossibilityItem:
		if v == nil {
			return fail(types.ErrNullArgument)
		}
		return e.resolveItem(op, fd, list, *v)
	case types.PossibilityItem:
		if it, ok := list.ItemByID(v.ID); ok {
			return it, nil
		}
		return fail(fmt.Errorf("%q not in %s: %w", v.Name, list.Name, types.ErrInvalidListItem))
	case string:
		if v == "" {
			return fail(types.ErrNullArgument)
		}
		if it, ok := list.Find(v); ok {
			return it, nil
		}
		return fail(fmt.Errorf("%q not in %s: %w", v, list.Name, types.ErrInvalidListItem))
	default:
		return fail(fmt.Errorf("item reference of type %T: %w", ref, types.ErrInvalidListItem))
	}
}

// itemID returns the ID to remove for ref. References the list cannot
// resolve fall back to the raw ID so stale selections can still be removed.
func (e *ListEditor) itemID(op string, fd types.FieldDescriptor, list *types.PossibilityList, ref any) (string, error) {
	it, err := e.resolveItem(op, fd, list, ref)
	if err == nil {
		return it.ID, nil
	}
	if !errors.Is(err, types.ErrInvalidListItem) {
		return "", err
	}
	switch v := ref.(type) {
	case string:
		return v, nil
	case types.PossibilityItem:
		return v.ID, nil
	case *types.PossibilityItem:
		return v.ID, nil
	}
	return "", err
}

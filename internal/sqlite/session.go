package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// Writing-system list kinds in the writing_systems table.
const (
	wsVernacular = "vernacular"
	wsAnalysis   = "analysis"
)

type wsRow struct {
	handle int
	tag    string
}

func toWSRows(list []types.WritingSystem) []wsRow {
	rows := make([]wsRow, len(list))
	for i, ws := range list {
		rows[i] = wsRow{handle: ws.Handle, tag: ws.Tag}
	}
	return rows
}

// OpenForWrite implements types.Session.
func (b *Backend) OpenForWrite() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.attached && !b.config.ReadOnly
}

// Store implements types.Session.
func (b *Backend) Store() types.ValueStore {
	return b
}

// Classes implements types.Session.
func (b *Backend) Classes() ([]types.ClassInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query("SELECT name, base FROM classes ORDER BY ordinal")
	if err != nil {
		return nil, fmt.Errorf("querying classes: %w", err)
	}
	defer rows.Close()

	var out []types.ClassInfo
	for rows.Next() {
		var c types.ClassInfo
		var base sql.NullString
		if err := rows.Scan(&c.Name, &base); err != nil {
			return nil, fmt.Errorf("scanning class: %w", err)
		}
		c.Base = base.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// Fields implements types.Session.
func (b *Backend) Fields() ([]types.FieldDescriptor, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query(`SELECT field_id, owning_class, name, category, is_custom, role, list_id, description
		FROM fields ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying fields: %w", err)
	}
	defer rows.Close()

	var out []types.FieldDescriptor
	for rows.Next() {
		var fd types.FieldDescriptor
		var category string
		var custom int
		var role, listID, desc sql.NullString
		if err := rows.Scan(&fd.ID, &fd.OwningClass, &fd.Name, &category, &custom, &role, &listID, &desc); err != nil {
			return nil, fmt.Errorf("scanning field: %w", err)
		}
		if fd.Category, err = types.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("field %d: %w", fd.ID, err)
		}
		if fd.Role, err = types.ParseRole(role.String); err != nil {
			return nil, fmt.Errorf("field %d: %w", fd.ID, err)
		}
		fd.IsCustom = custom != 0
		fd.ListID = listID.String
		fd.Description = desc.String
		out = append(out, fd)
	}
	return out, rows.Err()
}

// WritingSystems implements types.Session.
func (b *Backend) WritingSystems() ([]types.WritingSystem, []types.WritingSystem, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return nil, nil, err
	}

	rows, err := b.db.Query("SELECT kind, handle, tag FROM writing_systems ORDER BY kind, ordinal")
	if err != nil {
		return nil, nil, fmt.Errorf("querying writing systems: %w", err)
	}
	defer rows.Close()

	var vern, anal []types.WritingSystem
	for rows.Next() {
		var kind string
		var ws types.WritingSystem
		if err := rows.Scan(&kind, &ws.Handle, &ws.Tag); err != nil {
			return nil, nil, fmt.Errorf("scanning writing system: %w", err)
		}
		switch kind {
		case wsVernacular:
			vern = append(vern, ws)
		case wsAnalysis:
			anal = append(anal, ws)
		}
	}
	return vern, anal, rows.Err()
}

// PossibilityList implements types.Session.
func (b *Backend) PossibilityList(id string) (*types.PossibilityList, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return nil, err
	}

	list := &types.PossibilityList{}
	err := b.db.QueryRow("SELECT list_id, name FROM possibility_lists WHERE list_id = ?", id).
		Scan(&list.ID, &list.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %q: %w", id, types.ErrUnknownList)
	}
	if err != nil {
		return nil, fmt.Errorf("getting list %s: %w", id, err)
	}

	rows, err := b.db.Query(
		"SELECT item_id, name, abbreviation, ordinal FROM possibility_items WHERE list_id = ? ORDER BY ordinal",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying items of %s: %w", list.Name, err)
	}
	defer rows.Close()
	for rows.Next() {
		it := types.PossibilityItem{ListID: list.ID}
		var abbr sql.NullString
		if err := rows.Scan(&it.ID, &it.Name, &abbr, &it.Ordinal); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		it.Abbreviation = abbr.String
		list.Items = append(list.Items, it)
	}
	return list, rows.Err()
}

// Object implements types.Session.
func (b *Backend) Object(id int64) (types.Object, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return types.Object{}, err
	}

	o := types.Object{ID: id}
	err := b.db.QueryRow("SELECT class FROM objects WHERE object_id = ?", id).Scan(&o.Class)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Object{}, types.ErrObjectNotFound
	}
	if err != nil {
		return types.Object{}, fmt.Errorf("getting object %d: %w", id, err)
	}
	return o, nil
}

// Objects implements types.Session.
func (b *Backend) Objects() ([]types.Object, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query("SELECT object_id, class FROM objects ORDER BY object_id")
	if err != nil {
		return nil, fmt.Errorf("querying objects: %w", err)
	}
	defer rows.Close()
	var out []types.Object
	for rows.Next() {
		var o types.Object
		if err := rows.Scan(&o.ID, &o.Class); err != nil {
			return nil, fmt.Errorf("scanning object: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CreateObject implements types.ObjectCreator.
func (b *Backend) CreateObject(class string) (types.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writable(); err != nil {
		return types.Object{}, err
	}

	var known int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM classes WHERE name = ?", class).Scan(&known); err != nil {
		return types.Object{}, fmt.Errorf("checking class: %w", err)
	}
	if known == 0 {
		return types.Object{}, fmt.Errorf("class %q: %w", class, types.ErrUnknownClass)
	}

	var next int64
	if err := b.db.QueryRow("SELECT COALESCE(MAX(object_id), 0) + 1 FROM objects").Scan(&next); err != nil {
		return types.Object{}, fmt.Errorf("allocating object id: %w", err)
	}
	if _, err := b.db.Exec("INSERT INTO objects (object_id, class) VALUES (?, ?)", next, class); err != nil {
		return types.Object{}, fmt.Errorf("creating object: %w", err)
	}
	if err := b.persistLocked(tableObjects); err != nil {
		return types.Object{}, err
	}
	return types.Object{ID: next, Class: class}, nil
}

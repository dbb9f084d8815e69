package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// GetString implements types.ValueStore.
func (b *Backend) GetString(obj int64, field int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return "", err
	}

	var v string
	err := b.db.QueryRow(
		"SELECT value FROM string_values WHERE object_id = ? AND field_id = ?", obj, field,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return types.NullMarker, nil
	}
	if err != nil {
		return "", fmt.Errorf("getting text: %w", err)
	}
	return v, nil
}

// SetString implements types.ValueStore.
func (b *Backend) SetString(obj int64, field int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writable(); err != nil {
		return err
	}

	var err error
	if text == "" {
		_, err = b.db.Exec("DELETE FROM string_values WHERE object_id = ? AND field_id = ?", obj, field)
	} else {
		_, err = b.db.Exec(
			"INSERT OR REPLACE INTO string_values (object_id, field_id, value) VALUES (?, ?, ?)",
			obj, field, text,
		)
	}
	if err != nil {
		return fmt.Errorf("setting text: %w", err)
	}
	return b.persistLocked(tableStringValues)
}

// GetMultiString implements types.ValueStore.
func (b *Backend) GetMultiString(obj int64, field int, ws int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return "", err
	}

	var v string
	err := b.db.QueryRow(
		"SELECT value FROM multi_string_values WHERE object_id = ? AND field_id = ? AND ws = ?",
		obj, field, ws,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting multitext: %w", err)
	}
	return v, nil
}

// GetMultiStrings implements types.ValueStore.
func (b *Backend) GetMultiStrings(obj int64, field int) (map[int]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query(
		"SELECT ws, value FROM multi_string_values WHERE object_id = ? AND field_id = ?", obj, field,
	)
	if err != nil {
		return nil, fmt.Errorf("querying multitext: %w", err)
	}
	defer rows.Close()
	out := make(map[int]string)
	for rows.Next() {
		var ws int
		var v string
		if err := rows.Scan(&ws, &v); err != nil {
			return nil, fmt.Errorf("scanning multitext: %w", err)
		}
		out[ws] = v
	}
	return out, rows.Err()
}

// SetMultiString implements types.ValueStore.
func (b *Backend) SetMultiString(obj int64, field int, ws int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writable(); err != nil {
		return err
	}

	var err error
	if text == "" {
		_, err = b.db.Exec(
			"DELETE FROM multi_string_values WHERE object_id = ? AND field_id = ? AND ws = ?",
			obj, field, ws,
		)
	} else {
		_, err = b.db.Exec(
			"INSERT OR REPLACE INTO multi_string_values (object_id, field_id, ws, value) VALUES (?, ?, ?, ?)",
			obj, field, ws, text,
		)
	}
	if err != nil {
		return fmt.Errorf("setting multitext: %w", err)
	}
	return b.persistLocked(tableMultiString)
}

// ReplaceMultiStrings implements types.ValueStore.
func (b *Backend) ReplaceMultiStrings(obj int64, field int, values map[int]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writable(); err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(
		"DELETE FROM multi_string_values WHERE object_id = ? AND field_id = ?", obj, field,
	); err != nil {
		return fmt.Errorf("clearing multitext: %w", err)
	}
	for ws, text := range values {
		if text == "" {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO multi_string_values (object_id, field_id, ws, value) VALUES (?, ?, ?, ?)",
			obj, field, ws, text,
		); err != nil {
			return fmt.Errorf("inserting multitext: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing multitext: %w", err)
	}
	return b.persistLocked(tableMultiString)
}

// GetInteger implements types.ValueStore.
func (b *Backend) GetInteger(obj int64, field int) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return 0, err
	}

	var v int64
	err := b.db.QueryRow(
		"SELECT value FROM integer_values WHERE object_id = ? AND field_id = ?", obj, field,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting integer: %w", err)
	}
	return v, nil
}

// SetInteger implements types.ValueStore. Zero is stored as the absence of a
// row since both read back as 0.
func (b *Backend) SetInteger(obj int64, field int, value int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writable(); err != nil {
		return err
	}

	var err error
	if value == 0 {
		_, err = b.db.Exec("DELETE FROM integer_values WHERE object_id = ? AND field_id = ?", obj, field)
	} else {
		_, err = b.db.Exec(
			"INSERT OR REPLACE INTO integer_values (object_id, field_id, value) VALUES (?, ?, ?)",
			obj, field, value,
		)
	}
	if err != nil {
		return fmt.Errorf("setting integer: %w", err)
	}
	return b.persistLocked(tableIntegerValues)
}

// GetDate implements types.ValueStore.
func (b *Backend) GetDate(obj int64, field int) (types.GenDate, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return types.GenDate{}, err
	}

	var date sql.NullString
	var precision string
	err := b.db.QueryRow(
		"SELECT date, precision FROM date_values WHERE object_id = ? AND field_id = ?", obj, field,
	).Scan(&date, &precision)
	if errors.Is(err, sql.ErrNoRows) {
		return types.GenDate{}, nil
	}
	if err != nil {
		return types.GenDate{}, fmt.Errorf("getting date: %w", err)
	}
	p, err := types.ParsePrecision(precision)
	if err != nil {
		return types.GenDate{}, err
	}
	if !date.Valid {
		return types.GenDate{Precision: p}, nil
	}
	return types.ParseGenDate(date.String, p)
}

// SetDate implements types.ValueStore.
func (b *Backend) SetDate(obj int64, field int, value types.GenDate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writable(); err != nil {
		return err
	}

	var err error
	if value.IsZero() {
		_, err = b.db.Exec("DELETE FROM date_values WHERE object_id = ? AND field_id = ?", obj, field)
	} else {
		var date sql.NullString
		if !value.Date.IsZero() {
			date = sql.NullString{String: value.Date.In(time.UTC).Format(types.DateLayout), Valid: true}
		}
		_, err = b.db.Exec(
			"INSERT OR REPLACE INTO date_values (object_id, field_id, date, precision) VALUES (?, ?, ?, ?)",
			obj, field, date, value.Precision.String(),
		)
	}
	if err != nil {
		return fmt.Errorf("setting date: %w", err)
	}
	return b.persistLocked(tableDateValues)
}

// GetReferences implements types.ValueStore.
func (b *Backend) GetReferences(obj int64, field int) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.readable(); err != nil {
		return nil, err
	}

	rows, err := b.db.Query(
		"SELECT item_id FROM reference_values WHERE object_id = ? AND field_id = ? ORDER BY ordinal",
		obj, field,
	)
	if err != nil {
		return nil, fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ReplaceReferences implements types.ValueStore.
func (b *Backend) ReplaceReferences(obj int64, field int, itemIDs []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writable(); err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(
		"DELETE FROM reference_values WHERE object_id = ? AND field_id = ?", obj, field,
	); err != nil {
		return fmt.Errorf("clearing references: %w", err)
	}
	for i, id := range itemIDs {
		if _, err := tx.Exec(
			"INSERT INTO reference_values (object_id, field_id, ordinal, item_id) VALUES (?, ?, ?, ?)",
			obj, field, i, id,
		); err != nil {
			return fmt.Errorf("inserting reference: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing references: %w", err)
	}
	return b.persistLocked(tableReferenceValues)
}

// valueTables lists every table ClearField touches.
var valueTables = []string{
	tableStringValues,
	tableMultiString,
	tableIntegerValues,
	tableDateValues,
	tableReferenceValues,
}

// ClearField implements types.ValueStore.
func (b *Backend) ClearField(obj int64, field int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.writable(); err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()
	for _, table := range valueTables {
		if _, err := tx.Exec(
			fmt.Sprintf("DELETE FROM %s WHERE object_id = ? AND field_id = ?", table), obj, field,
		); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing clear: %w", err)
	}
	return b.persistLocked(valueTables...)
}

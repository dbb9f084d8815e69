package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexfields/internal/jsonl"
)

// JSONL file names in DataDir. They are the source of truth; the SQLite file
// is rebuilt from them on every attach.
const (
	classesJSONL         = "classes.jsonl"
	writingSystemsJSONL  = "writing_systems.jsonl"
	fieldsJSONL          = "fields.jsonl"
	listsJSONL           = "possibility_lists.jsonl"
	itemsJSONL           = "possibility_items.jsonl"
	objectsJSONL         = "objects.jsonl"
	stringValuesJSONL    = "string_values.jsonl"
	multiStringsJSONL    = "multi_string_values.jsonl"
	integerValuesJSONL   = "integer_values.jsonl"
	dateValuesJSONL      = "date_values.jsonl"
	referenceValuesJSONL = "reference_values.jsonl"
)

// tableMapping ties a JSONL file to its SQLite table. orderBy fixes the
// record order of the persisted file.
type tableMapping struct {
	file    string
	table   string
	columns []string
	orderBy string
}

// Table names used when marking a table dirty.
const (
	tableClasses         = "classes"
	tableWritingSystems  = "writing_systems"
	tableFields          = "fields"
	tableLists           = "possibility_lists"
	tableItems           = "possibility_items"
	tableObjects         = "objects"
	tableStringValues    = "string_values"
	tableMultiString     = "multi_string_values"
	tableIntegerValues   = "integer_values"
	tableDateValues      = "date_values"
	tableReferenceValues = "reference_values"
)

// jsonlTableMapping lists every persisted table. Tables referenced by foreign
// keys come first.
var jsonlTableMapping = []tableMapping{
	{classesJSONL, tableClasses, []string{"name", "base", "ordinal"}, "ordinal"},
	{writingSystemsJSONL, tableWritingSystems, []string{"kind", "ordinal", "handle", "tag"}, "kind DESC, ordinal"},
	{listsJSONL, tableLists, []string{"list_id", "name", "ordinal"}, "ordinal"},
	{itemsJSONL, tableItems, []string{"item_id", "list_id", "name", "abbreviation", "ordinal"}, "list_id, ordinal"},
	{fieldsJSONL, tableFields, []string{"field_id", "owning_class", "name", "category", "is_custom", "role", "list_id", "description", "ordinal"}, "ordinal"},
	{objectsJSONL, tableObjects, []string{"object_id", "class"}, "object_id"},
	{stringValuesJSONL, tableStringValues, []string{"object_id", "field_id", "value"}, "object_id, field_id"},
	{multiStringsJSONL, tableMultiString, []string{"object_id", "field_id", "ws", "value"}, "object_id, field_id, ws"},
	{integerValuesJSONL, tableIntegerValues, []string{"object_id", "field_id", "value"}, "object_id, field_id"},
	{dateValuesJSONL, tableDateValues, []string{"object_id", "field_id", "date", "precision"}, "object_id, field_id"},
	{referenceValuesJSONL, tableReferenceValues, []string{"object_id", "field_id", "ordinal", "item_id"}, "object_id, field_id, ordinal"},
}

// mappingFor returns the mapping of a table.
func mappingFor(table string) (tableMapping, bool) {
	for _, m := range jsonlTableMapping {
		if m.table == table {
			return m, true
		}
	}
	return tableMapping{}, false
}

// loadAllJSONL reads each JSONL file from dataDir into its SQLite table.
// Loading is transactional: all files load or the database stays empty.
// Unknown fields in records are ignored.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disabling foreign keys for load: %w", err)
	}

	for _, mapping := range jsonlTableMapping {
		records, err := jsonl.Read(filepath.Join(dataDir, mapping.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, mapping.table, mapping.columns, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
	}

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("re-enabling foreign keys: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts records into table. Only the listed columns are read
// from each record. Records that violate a constraint are skipped.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) error {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for i, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}
		args := make([]any, len(columns))
		for j, col := range columns {
			args[j] = sqlValue(obj[col])
		}
		if _, err := stmt.Exec(args...); err != nil {
			zap.L().Warn("skipping record",
				zap.String("table", table),
				zap.Int("record", i+1),
				zap.Error(err))
		}
	}
	return nil
}

// sqlValue converts a decoded JSON value for binding. JSON numbers decode as
// float64; integral ones are bound as int64 so INTEGER keys match.
func sqlValue(v any) any {
	if f, ok := v.(float64); ok && f == math.Trunc(f) {
		return int64(f)
	}
	return v
}

// persistTable rewrites the JSONL file of table from its current rows.
func persistTable(q querier, dataDir, table string) error {
	mapping, ok := mappingFor(table)
	if !ok {
		return fmt.Errorf("no JSONL mapping for table %s", table)
	}
	rows, err := q.Query(fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s",
		strings.Join(mapping.columns, ", "), mapping.table, mapping.orderBy,
	))
	if err != nil {
		return fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		vals := make([]any, len(mapping.columns))
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scanning %s: %w", table, err)
		}
		rec := make(map[string]any, len(vals))
		for i, col := range mapping.columns {
			if b, ok := vals[i].([]byte); ok {
				vals[i] = string(b)
			}
			rec[col] = vals[i]
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling %s record: %w", table, err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s: %w", table, err)
	}
	return jsonl.Write(filepath.Join(dataDir, mapping.file), records)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

package sqlite

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexfields/internal/project"
)

// seededTables are the tables seeding writes and persists.
var seededTables = []string{
	tableClasses,
	tableWritingSystems,
	tableLists,
	tableItems,
	tableFields,
	tableObjects,
}

// isSeeded reports whether the schema was loaded from JSONL.
func isSeeded(db *sql.DB) (bool, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM classes").Scan(&count); err != nil {
		return false, fmt.Errorf("counting classes: %w", err)
	}
	return count > 0, nil
}

// seedProject writes the classes, writing systems, lists, fields and objects
// of p into an empty database and persists them to JSONL. It runs only on the
// first attach of a data directory; afterwards the JSONL files are
// authoritative and the generated list and item ids stay stable.
func seedProject(db *sql.DB, dataDir string, p *project.Project) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for i, c := range p.Classes {
		if _, err := tx.Exec(
			"INSERT INTO classes (name, base, ordinal) VALUES (?, ?, ?)",
			c.Name, nullString(c.Base), i,
		); err != nil {
			return fmt.Errorf("seeding class %s: %w", c.Name, err)
		}
	}
	for kind, list := range map[string][]wsRow{
		wsVernacular: toWSRows(p.Vernacular),
		wsAnalysis:   toWSRows(p.Analysis),
	} {
		for i, ws := range list {
			if _, err := tx.Exec(
				"INSERT INTO writing_systems (kind, ordinal, handle, tag) VALUES (?, ?, ?, ?)",
				kind, i, ws.handle, ws.tag,
			); err != nil {
				return fmt.Errorf("seeding writing system %s: %w", ws.tag, err)
			}
		}
	}
	for i, l := range p.Lists {
		if _, err := tx.Exec(
			"INSERT INTO possibility_lists (list_id, name, ordinal) VALUES (?, ?, ?)",
			l.ID, l.Name, i,
		); err != nil {
			return fmt.Errorf("seeding list %s: %w", l.Name, err)
		}
		for _, it := range l.Items {
			if _, err := tx.Exec(
				"INSERT INTO possibility_items (item_id, list_id, name, abbreviation, ordinal) VALUES (?, ?, ?, ?, ?)",
				it.ID, l.ID, it.Name, nullString(it.Abbreviation), it.Ordinal,
			); err != nil {
				return fmt.Errorf("seeding item %s of %s: %w", it.Name, l.Name, err)
			}
		}
	}
	for i, fd := range p.Fields {
		if _, err := tx.Exec(
			`INSERT INTO fields (field_id, owning_class, name, category, is_custom, role, list_id, description, ordinal)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			fd.ID, fd.OwningClass, fd.Name, fd.Category.String(), boolInt(fd.IsCustom),
			nullString(fd.Role.String()), nullString(fd.ListID), nullString(fd.Description), i,
		); err != nil {
			return fmt.Errorf("seeding field %s: %w", fd.QualifiedName(), err)
		}
	}
	for _, o := range p.Objects {
		if _, err := tx.Exec(
			"INSERT INTO objects (object_id, class) VALUES (?, ?)",
			o.ID, o.Class,
		); err != nil {
			return fmt.Errorf("seeding object %d: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	for _, table := range seededTables {
		if err := persistTable(db, dataDir, table); err != nil {
			return fmt.Errorf("persisting seeded %s: %w", table, err)
		}
	}
	zap.L().Info("seeded project schema",
		zap.String("project", p.Name),
		zap.String("data_dir", dataDir),
		zap.Int("fields", len(p.Fields)),
		zap.Int("objects", len(p.Objects)))
	return nil
}

// nullString maps "" to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

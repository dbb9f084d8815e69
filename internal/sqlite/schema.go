package sqlite

// Schema DDL. The project schema tables are seeded once from the project
// definition; the value tables hold one row per stored value.
const (
	createClasses = `CREATE TABLE classes (
    name TEXT PRIMARY KEY,
    base TEXT,
    ordinal INTEGER NOT NULL
);`

	createWritingSystems = `CREATE TABLE writing_systems (
    kind TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    handle INTEGER NOT NULL,
    tag TEXT NOT NULL,
    PRIMARY KEY (kind, ordinal)
);`

	createFields = `CREATE TABLE fields (
    field_id INTEGER PRIMARY KEY,
    owning_class TEXT NOT NULL,
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    is_custom INTEGER NOT NULL,
    role TEXT,
    list_id TEXT,
    description TEXT,
    ordinal INTEGER NOT NULL,
    UNIQUE (owning_class, name),
    FOREIGN KEY (owning_class) REFERENCES classes(name)
);`

	createPossibilityLists = `CREATE TABLE possibility_lists (
    list_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    ordinal INTEGER NOT NULL
);`

	createPossibilityItems = `CREATE TABLE possibility_items (
    item_id TEXT PRIMARY KEY,
    list_id TEXT NOT NULL,
    name TEXT NOT NULL,
    abbreviation TEXT,
    ordinal INTEGER NOT NULL,
    FOREIGN KEY (list_id) REFERENCES possibility_lists(list_id)
);`

	createObjects = `CREATE TABLE objects (
    object_id INTEGER PRIMARY KEY,
    class TEXT NOT NULL,
    FOREIGN KEY (class) REFERENCES classes(name)
);`

	createStringValues = `CREATE TABLE string_values (
    object_id INTEGER NOT NULL,
    field_id INTEGER NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (object_id, field_id)
);`

	createMultiStringValues = `CREATE TABLE multi_string_values (
    object_id INTEGER NOT NULL,
    field_id INTEGER NOT NULL,
    ws INTEGER NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (object_id, field_id, ws)
);`

	createIntegerValues = `CREATE TABLE integer_values (
    object_id INTEGER NOT NULL,
    field_id INTEGER NOT NULL,
    value INTEGER NOT NULL,
    PRIMARY KEY (object_id, field_id)
);`

	createDateValues = `CREATE TABLE date_values (
    object_id INTEGER NOT NULL,
    field_id INTEGER NOT NULL,
    date TEXT,
    precision TEXT NOT NULL,
    PRIMARY KEY (object_id, field_id)
);`

	createReferenceValues = `CREATE TABLE reference_values (
    object_id INTEGER NOT NULL,
    field_id INTEGER NOT NULL,
    ordinal INTEGER NOT NULL,
    item_id TEXT NOT NULL,
    PRIMARY KEY (object_id, field_id, ordinal)
);`
)

// Index DDL for common queries.
const (
	idxFieldsClass         = `CREATE INDEX idx_fields_class ON fields(owning_class);`
	idxItemsList           = `CREATE INDEX idx_possibility_items_list ON possibility_items(list_id, ordinal);`
	idxObjectsClass        = `CREATE INDEX idx_objects_class ON objects(class);`
	idxReferenceValuesItem = `CREATE INDEX idx_reference_values_item ON reference_values(item_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createClasses,
	createWritingSystems,
	createFields,
	createPossibilityLists,
	createPossibilityItems,
	createObjects,
	createStringValues,
	createMultiStringValues,
	createIntegerValues,
	createDateValues,
	createReferenceValues,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxFieldsClass,
	idxItemsList,
	idxObjectsClass,
	idxReferenceValuesItem,
}

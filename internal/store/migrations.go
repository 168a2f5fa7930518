package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS lists (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL CHECK(length(trim(name)) > 0),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS items (
	id         TEXT PRIMARY KEY,
	list_id    TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	title      TEXT NOT NULL CHECK(length(trim(title)) > 0),
	status     INTEGER NOT NULL DEFAULT 0,
	timestamp  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_items_list_id ON items(list_id);
CREATE INDEX IF NOT EXISTS idx_items_sort_order ON items(list_id, sort_order);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS item_child_lists (
	item_id    TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	list_id    TEXT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	child_pos  INTEGER NOT NULL DEFAULT 0,
	parent_pos INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (item_id, list_id)
);

CREATE INDEX IF NOT EXISTS idx_item_child_lists_list_id ON item_child_lists(list_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

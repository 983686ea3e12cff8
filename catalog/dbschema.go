package catalog

const requiredSchemaVersion = 1

// SchemaVersion is the catalog schema this package reads and writes.
func SchemaVersion() int {
	return requiredSchemaVersion
}

// SQLCreateTables returns the statements creating an empty catalog.
func SQLCreateTables() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS files (
 path VARCHAR(4096) NOT NULL PRIMARY KEY,
 format VARCHAR(16) NOT NULL,
 error_kind VARCHAR(32) NOT NULL DEFAULT '',
 error_msg TEXT NOT NULL DEFAULT '',
 scanned_at INTEGER NOT NULL)`,

		`CREATE TABLE IF NOT EXISTS tags (
 path VARCHAR(4096) NOT NULL,
 position INTEGER NOT NULL,
 name VARCHAR(64) NOT NULL,
 type INTEGER NOT NULL,
 text TEXT,
 num INTEGER,
 den INTEGER,
 PRIMARY KEY (path, position))`,

		`CREATE TABLE IF NOT EXISTS meta (
 metakey VARCHAR(255) NOT NULL PRIMARY KEY,
 value VARCHAR(255) NOT NULL)`,
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/healerjang/imgspace/pkg/types"
)

// Schema DDL. label.image_id references image before image exists; SQLite
// resolves foreign key targets when rows are written, not when tables are
// created.
const (
	createSetting = `CREATE TABLE IF NOT EXISTS setting (
    setting_id INTEGER PRIMARY KEY CHECK (setting_id = 1),
    created_at TEXT NOT NULL
);`

	createSystem = `CREATE TABLE IF NOT EXISTS system (
    system_id INTEGER PRIMARY KEY CHECK (system_id = 1),
    setting_id INTEGER NOT NULL UNIQUE,
    install_id TEXT NOT NULL,
    FOREIGN KEY (setting_id) REFERENCES setting(setting_id) ON DELETE CASCADE
);`

	createWorkspace = `CREATE TABLE IF NOT EXISTS workspace (
    workspace_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);`

	createLabel = `CREATE TABLE IF NOT EXISTS label (
    label_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    parent_label_id INTEGER,
    image_id INTEGER,
    created_at TEXT NOT NULL,
    FOREIGN KEY (parent_label_id) REFERENCES label(label_id) ON DELETE SET NULL,
    FOREIGN KEY (image_id) REFERENCES image(image_id) ON DELETE SET NULL
);`

	createSets = `CREATE TABLE IF NOT EXISTS sets (
    set_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    parent_label_id INTEGER UNIQUE,
    parent_set_id INTEGER,
    created_at TEXT NOT NULL,
    FOREIGN KEY (parent_label_id) REFERENCES label(label_id) ON DELETE SET NULL,
    FOREIGN KEY (parent_set_id) REFERENCES sets(set_id) ON DELETE SET NULL
);`

	createStream = `CREATE TABLE IF NOT EXISTS stream (
    stream_id INTEGER PRIMARY KEY AUTOINCREMENT,
    workspace_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (workspace_id, name),
    FOREIGN KEY (workspace_id) REFERENCES workspace(workspace_id) ON DELETE CASCADE
);`

	createImage = `CREATE TABLE IF NOT EXISTS image (
    image_id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    workspace_id INTEGER,
    label_id INTEGER UNIQUE,
    created_at TEXT NOT NULL,
    FOREIGN KEY (workspace_id) REFERENCES workspace(workspace_id) ON DELETE CASCADE,
    FOREIGN KEY (label_id) REFERENCES label(label_id) ON DELETE SET NULL
);`

	createImageSet = `CREATE TABLE IF NOT EXISTS image_set (
    image_id INTEGER NOT NULL,
    set_id INTEGER NOT NULL,
    PRIMARY KEY (image_id, set_id),
    FOREIGN KEY (image_id) REFERENCES image(image_id) ON DELETE CASCADE,
    FOREIGN KEY (set_id) REFERENCES sets(set_id) ON DELETE CASCADE
);`

	createStreamImage = `CREATE TABLE IF NOT EXISTS stream_image (
    stream_id INTEGER NOT NULL,
    image_id INTEGER NOT NULL,
    PRIMARY KEY (stream_id, image_id),
    FOREIGN KEY (stream_id) REFERENCES stream(stream_id) ON DELETE CASCADE,
    FOREIGN KEY (image_id) REFERENCES image(image_id) ON DELETE CASCADE
);`
)

// Index DDL. NULL parents compare distinct in idx_sets_sibling_name, so
// nulling a parent reference never conflicts; InsertSet checks root names.
const (
	idxSetsSiblingName  = `CREATE UNIQUE INDEX IF NOT EXISTS idx_sets_sibling_name ON sets(parent_set_id, name);`
	idxStreamWorkspace  = `CREATE INDEX IF NOT EXISTS idx_stream_workspace ON stream(workspace_id);`
	idxImageWorkspace   = `CREATE INDEX IF NOT EXISTS idx_image_workspace ON image(workspace_id, image_id);`
	idxImageLabel       = `CREATE INDEX IF NOT EXISTS idx_image_label ON image(label_id);`
	idxImageSetSet      = `CREATE INDEX IF NOT EXISTS idx_image_set_set ON image_set(set_id);`
	idxStreamImageImage = `CREATE INDEX IF NOT EXISTS idx_stream_image_image ON stream_image(image_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order: singleton
// tables, independent entities, dependent entities, associations.
var schemaDDL = []string{
	createSetting,
	createSystem,
	createWorkspace,
	createLabel,
	createSets,
	createStream,
	createImage,
	createImageSet,
	createStreamImage,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxSetsSiblingName,
	idxStreamWorkspace,
	idxImageWorkspace,
	idxImageLabel,
	idxImageSetSet,
	idxStreamImageImage,
}

// EnsureSchema creates every missing table and index and seeds the singleton
// rows, in one transaction. It is idempotent.
func (b *Backend) EnsureSchema(ctx context.Context) error {
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		for _, ddl := range schemaDDL {
			if _, err := tx.ExecContext(ctx, ddl); err != nil {
				return fmt.Errorf("creating table: %w", classify(err))
			}
		}
		for _, ddl := range indexDDL {
			if _, err := tx.ExecContext(ctx, ddl); err != nil {
				return fmt.Errorf("creating index: %w", classify(err))
			}
		}
		return seedSingletons(ctx, tx)
	})
	if err != nil {
		b.logger.Error("schema creation failed", "error", err)
		return fmt.Errorf("ensuring schema: %w", err)
	}
	b.logger.Debug("schema ensured", "tables", len(schemaDDL))
	return nil
}

// SchemaExists reports whether every table in types.StandardTableNames is
// present.
func (b *Backend) SchemaExists(ctx context.Context) (bool, error) {
	db, err := b.Conn(ctx)
	if err != nil {
		return false, err
	}
	present, err := listTables(ctx, db)
	if err != nil {
		return false, err
	}
	for _, name := range types.StandardTableNames {
		if !present[name] {
			return false, nil
		}
	}
	return true, nil
}

// DropSchema drops every user table with foreign key enforcement disabled,
// then re-enables enforcement. Enforcement is restored even when a drop
// fails. SQLite catalog tables are never touched.
func (b *Backend) DropSchema(ctx context.Context) (err error) {
	db, err := b.Conn(ctx)
	if err != nil {
		return err
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", classify(err))
	}
	defer conn.Close()

	present, err := listTables(ctx, conn)
	if err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("disabling foreign keys: %w", classify(err))
	}
	defer func() {
		if _, perr := conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA foreign_keys = ON"); perr != nil && err == nil {
			err = fmt.Errorf("enabling foreign keys: %w", classify(perr))
		}
	}()

	for name := range present {
		if _, err := conn.ExecContext(ctx, `DROP TABLE IF EXISTS "`+name+`"`); err != nil {
			b.logger.Error("drop table failed", "table", name, "error", err)
			return fmt.Errorf("dropping table %s: %w", name, classify(err))
		}
	}
	b.logger.Info("schema dropped", "tables", len(present))
	return nil
}

// listTables returns the user tables in the database.
func listTables(ctx context.Context, q queryer) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", classify(err))
	}
	defer rows.Close()

	tables := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		tables[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing tables: %w", classify(err))
	}
	return tables, nil
}

package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS assets (
    name                 TEXT PRIMARY KEY,
    file_path            TEXT NOT NULL,
    kind                 INTEGER NOT NULL,
    format               TEXT NOT NULL,
    generator            TEXT,
    width                INTEGER,
    height               INTEGER,
    submesh_count        INTEGER NOT NULL DEFAULT 0,
    file_mtime_ns        INTEGER NOT NULL,
    file_size            INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS asset_submeshes (
    asset_name           TEXT NOT NULL REFERENCES assets(name) ON DELETE CASCADE,
    idx                  INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    material             TEXT,
    r                    REAL,
    g                    REAL,
    b                    REAL,
    a                    REAL,
    PRIMARY KEY (asset_name, idx)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assets_kind ON assets(kind);
`

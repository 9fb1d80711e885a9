// Package store provides a SQLite-backed cache for parsed asset metadata.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dset/arsavings/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed asset metadata caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveAsset stores parsed asset metadata and its file tracking info.
func (c *Cache) SaveAsset(a model.AssetInfo, mtimeNs, sizeBytes int64) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.Exec(`INSERT OR REPLACE INTO assets
		(name, file_path, kind, format, generator, width, height,
		 submesh_count, file_mtime_ns, file_size, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Path, int(a.Kind), a.Format, a.Generator, a.Width, a.Height,
		len(a.Submeshes), mtimeNs, sizeBytes, now,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM asset_submeshes WHERE asset_name = ?", a.Name)
	if err != nil {
		return err
	}

	for i, sm := range a.Submeshes {
		_, err = tx.Exec(`INSERT INTO asset_submeshes
			(asset_name, idx, name, material, r, g, b, a)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.Name, i, sm.Name, sm.Material, sm.Color[0], sm.Color[1], sm.Color[2], sm.Color[3],
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, a.Path, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadAllAssets reads all cached assets with their submeshes in index order.
func (c *Cache) LoadAllAssets() ([]model.AssetInfo, error) {
	rows, err := c.db.Query(`SELECT
		name, file_path, kind, format, generator, width, height
		FROM assets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var assets []model.AssetInfo
	for rows.Next() {
		var a model.AssetInfo
		var kind int
		var generator sql.NullString
		var width, height sql.NullInt64

		if err := rows.Scan(&a.Name, &a.Path, &kind, &a.Format, &generator, &width, &height); err != nil {
			return nil, err
		}
		a.Kind = model.AssetKind(kind)
		a.Generator = generator.String
		a.Width, a.Height = int(width.Int64), int(height.Int64)
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	smRows, err := c.db.Query(`SELECT asset_name, name, material, r, g, b, a
		FROM asset_submeshes ORDER BY asset_name, idx`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = smRows.Close() }()

	assetIdx := make(map[string]int, len(assets))
	for i, a := range assets {
		assetIdx[a.Name] = i
	}

	for smRows.Next() {
		var assetName string
		var sm model.SubmeshInfo
		var material sql.NullString
		err := smRows.Scan(&assetName, &sm.Name, &material, &sm.Color[0], &sm.Color[1], &sm.Color[2], &sm.Color[3])
		if err != nil {
			return nil, err
		}
		sm.Material = material.String
		if idx, ok := assetIdx[assetName]; ok {
			assets[idx].Submeshes = append(assets[idx].Submeshes, sm)
		}
	}

	return assets, smRows.Err()
}

// DeleteAsset removes an asset and its submeshes.
func (c *Cache) DeleteAsset(name string) error {
	_, err := c.db.Exec("DELETE FROM assets WHERE name = ?", name)
	return err
}

// DeleteFileTracker removes a file tracking entry.
func (c *Cache) DeleteFileTracker(filePath string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}

// AssetCount returns the number of cached assets.
func (c *Cache) AssetCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM assets").Scan(&count)
	return count, err
}

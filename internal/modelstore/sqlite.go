package modelstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"RiskSentinel/internal/model"
	"RiskSentinel/internal/pattern"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Loader loads a TemplateModel from a SQLite file. It implements pattern.ModelLoader.
type Loader struct {
	Path string
}

func (l Loader) Load(ctx context.Context) (pattern.Model, error) {
	m, err := Open(ctx, l.Path)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Open reads a template model from the SQLite database at path.
func Open(ctx context.Context, path string) (*TemplateModel, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	m := &TemplateModel{Templates: map[model.PatternType]Template{}}
	if err := readMeta(ctx, db, m); err != nil {
		return nil, err
	}
	if err := readTemplates(ctx, db, m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	log.Info().Str("path", path).Str("model", m.Name()).Int("templates", len(m.Templates)).
		Msg("template model opened")
	return m, nil
}

func readMeta(ctx context.Context, db *sql.DB, m *TemplateModel) error {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM model_meta`)
	if err != nil {
		return fmt.Errorf("read model meta: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan model meta: %w", err)
		}
		switch key {
		case "name":
			m.ModelName = value
		case "length":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("model meta length %q: %w", value, err)
			}
			m.Length = n
		}
	}
	return rows.Err()
}

func readTemplates(ctx context.Context, db *sql.DB, m *TemplateModel) error {
	rows, err := db.QueryContext(ctx,
		`SELECT pattern_type, idx, price, volume FROM templates ORDER BY pattern_type, idx`)
	if err != nil {
		return fmt.Errorf("read templates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			typ           string
			idx           int
			price, volume float64
		)
		if err := rows.Scan(&typ, &idx, &price, &volume); err != nil {
			return fmt.Errorf("scan template: %w", err)
		}
		t := m.Templates[model.PatternType(typ)]
		if idx != len(t.Price) {
			return fmt.Errorf("template %s: point %d out of order", typ, idx)
		}
		t.Price = append(t.Price, price)
		t.Volume = append(t.Volume, volume)
		m.Templates[model.PatternType(typ)] = t
	}
	return rows.Err()
}

// Save writes the model to a SQLite database at path, replacing any model stored there.
func Save(ctx context.Context, path string, m *TemplateModel) error {
	if err := m.Validate(); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if err := migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := writeModel(ctx, tx, m); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Info().Str("path", path).Str("model", m.Name()).Msg("template model saved")
	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS model_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS templates (
			pattern_type TEXT    NOT NULL,
			idx          INTEGER NOT NULL,
			price        REAL    NOT NULL,
			volume       REAL    NOT NULL,
			PRIMARY KEY (pattern_type, idx)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func writeModel(ctx context.Context, tx *sql.Tx, m *TemplateModel) error {
	for _, s := range []string{`DELETE FROM model_meta`, `DELETE FROM templates`} {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("clear model: %w", err)
		}
	}
	meta := [][2]string{{"name", m.Name()}, {"length", strconv.Itoa(m.Length)}}
	for _, kv := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO model_meta (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("write model meta: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO templates (pattern_type, idx, price, volume) VALUES (?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare template insert: %w", err)
	}
	defer stmt.Close()

	for typ, t := range m.Templates {
		for i := range t.Price {
			if _, err := stmt.ExecContext(ctx, string(typ), i, t.Price[i], t.Volume[i]); err != nil {
				return fmt.Errorf("write template %s: %w", typ, err)
			}
		}
	}
	return nil
}

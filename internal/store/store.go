// Package store persists detection runs to SQLite so results can be compared
// across parameter changes. Each run keeps the full configuration and result
// as JSON next to queryable per-electrode columns.
package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/seegkit/seegkit/internal/detect"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

type Store struct {
	*sql.DB
}

// Run is a stored detection run.
type Run struct {
	ID              string        `json:"id"`
	Detector        string        `json:"detector"`
	Label           string        `json:"label"`
	Config          detect.Config `json:"config"`
	ElectrodeCount  int           `json:"electrode_count"`
	UnabsorbedCount int           `json:"unabsorbed_count"`
	CreatedAt       time.Time     `json:"created_at"`
}

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc sqlite serialises writes itself; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	s := &Store{db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrateUp applies all pending migrations from the embedded filesystem.
func (s *Store) migrateUp() error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}
	driver, err := sqlite.WithInstance(s.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Closing m would close the underlying DB connection, so we leave it to
	// the garbage collector.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// SaveRun stores a detection result and returns the new run's id.
func (s *Store) SaveRun(detector, label string, cfg detect.Config, res *detect.DetectionResult) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	tx, err := s.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	_, err = tx.Exec(
		`INSERT INTO runs (id, detector, label, config_json, electrode_count, unabsorbed_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, detector, label, string(cfgJSON), len(res.Electrodes), len(res.Unabsorbed), time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for i, e := range res.Electrodes {
		contactsJSON, err := json.Marshal(e.Contacts)
		if err != nil {
			return "", fmt.Errorf("failed to marshal contacts: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO electrodes (
				run_id, position, electrode_id, suggested_name, contact_count,
				linearity, confidence, mean_pitch_mm, pitch_std_mm, pitch_family,
				source_window, tip_x, tip_y, tip_z, entry_x, entry_y, entry_z,
				contacts_json
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, e.ID, e.SuggestedName, e.ContactCount,
			e.LinearityScore, e.Confidence, e.MeanPitchMM, e.PitchStdMM, e.PitchFamily,
			e.SourceWindow, e.Tip.X, e.Tip.Y, e.Tip.Z, e.Entry.X, e.Entry.Y, e.Entry.Z,
			string(contactsJSON),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert electrode %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// GetRun loads a run's metadata and configuration.
func (s *Store) GetRun(id string) (*Run, error) {
	var run Run
	var cfgJSON string
	var createdUnix int64
	err := s.QueryRow(
		`SELECT id, detector, label, config_json, electrode_count, unabsorbed_count, created_at
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Detector, &run.Label, &cfgJSON, &run.ElectrodeCount, &run.UnabsorbedCount, &createdUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	run.CreatedAt = time.Unix(createdUnix, 0).UTC()
	if err := json.Unmarshal([]byte(cfgJSON), &run.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &run, nil
}

// GetElectrodes loads a run's stored electrodes in their saved order.
func (s *Store) GetElectrodes(runID string) ([]detect.DetectedElectrode, error) {
	rows, err := s.Query(
		`SELECT electrode_id, suggested_name, contact_count, linearity, confidence,
			mean_pitch_mm, pitch_std_mm, pitch_family, source_window,
			tip_x, tip_y, tip_z, entry_x, entry_y, entry_z, contacts_json
		 FROM electrodes WHERE run_id = ? ORDER BY position`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query electrodes: %w", err)
	}
	defer rows.Close()

	var electrodes []detect.DetectedElectrode
	for rows.Next() {
		var e detect.DetectedElectrode
		var contactsJSON string
		err := rows.Scan(
			&e.ID, &e.SuggestedName, &e.ContactCount, &e.LinearityScore, &e.Confidence,
			&e.MeanPitchMM, &e.PitchStdMM, &e.PitchFamily, &e.SourceWindow,
			&e.Tip.X, &e.Tip.Y, &e.Tip.Z, &e.Entry.X, &e.Entry.Y, &e.Entry.Z, &contactsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan electrode row: %w", err)
		}
		if err := json.Unmarshal([]byte(contactsJSON), &e.Contacts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal contacts: %w", err)
		}
		electrodes = append(electrodes, e)
	}
	return electrodes, rows.Err()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Query(
		`SELECT id, detector, label, config_json, electrode_count, unabsorbed_count, created_at
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var cfgJSON string
		var createdUnix int64
		err := rows.Scan(&run.ID, &run.Detector, &run.Label, &cfgJSON,
			&run.ElectrodeCount, &run.UnabsorbedCount, &createdUnix)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		run.CreatedAt = time.Unix(createdUnix, 0).UTC()
		if err := json.Unmarshal([]byte(cfgJSON), &run.Config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/grlcodee/credify.ai/models"
)

const (
	// MaxStoredAlerts is how many alerts are retained.
	MaxStoredAlerts = 100
	// ListedAlerts is how many alerts List returns.
	ListedAlerts = 20
)

// AlertStore is an append-only bounded collection of alerts.
type AlertStore interface {
	// Append assigns an id and timestamp when missing and persists the alert.
	Append(ctx context.Context, alert models.Alert) (models.Alert, error)
	// List returns the most recent alerts, newest first.
	List(ctx context.Context) ([]models.Alert, error)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewAlertID returns "alert-<unix ms>-<9 random base36 chars>".
func NewAlertID(now time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = base36[rand.IntN(len(base36))]
	}
	return "alert-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix)
}

func stamp(alert models.Alert, now time.Time) models.Alert {
	if alert.ID == "" {
		alert.ID = NewAlertID(now)
	}
	if alert.Timestamp == 0 {
		alert.Timestamp = now.UnixMilli()
	}
	if alert.Platforms == nil {
		alert.Platforms = []string{}
	}
	return alert
}

// FileAlertStore keeps alerts in a JSON file shaped {"alerts": [...]},
// oldest first.
type FileAlertStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

type alertFile struct {
	Alerts []models.Alert `json:"alerts"`
}

func NewFileAlertStore(path string) *FileAlertStore {
	return &FileAlertStore{path: path, now: time.Now}
}

func (s *FileAlertStore) read() ([]models.Alert, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read alerts: %w", err)
	}
	var f alertFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}
	return f.Alerts, nil
}

func (s *FileAlertStore) write(alerts []models.Alert) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create alerts dir: %w", err)
	}
	data, err := json.MarshalIndent(alertFile{Alerts: alerts}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write alerts: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileAlertStore) Append(_ context.Context, alert models.Alert) (models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts, err := s.read()
	if err != nil {
		return models.Alert{}, err
	}
	alert = stamp(alert, s.now())
	alerts = append(alerts, alert)
	if len(alerts) > MaxStoredAlerts {
		alerts = alerts[len(alerts)-MaxStoredAlerts:]
	}
	if err := s.write(alerts); err != nil {
		return models.Alert{}, err
	}
	return alert, nil
}

func (s *FileAlertStore) List(_ context.Context) ([]models.Alert, error) {
	s.mu.Lock()
	alerts, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return newestFirst(alerts, ListedAlerts), nil
}

func newestFirst(alerts []models.Alert, limit int) []models.Alert {
	out := make([]models.Alert, 0, limit)
	for i := len(alerts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, alerts[i])
	}
	return out
}

// SQLAlertStore persists alerts in the alerts table of a Postgres or SQLite
// database.
type SQLAlertStore struct {
	db  *DB
	now func() time.Time
}

func NewSQLAlertStore(db *DB) *SQLAlertStore {
	return &SQLAlertStore{db: db, now: time.Now}
}

func (s *SQLAlertStore) Append(ctx context.Context, alert models.Alert) (models.Alert, error) {
	alert = stamp(alert, s.now())
	payload, err := json.Marshal(alert)
	if err != nil {
		return models.Alert{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Alert{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO alerts (id, payload, created_at) VALUES ($1, $2, $3)`,
		alert.ID, string(payload), alert.Timestamp); err != nil {
		return models.Alert{}, fmt.Errorf("insert alert: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM alerts WHERE seq NOT IN (SELECT seq FROM alerts ORDER BY seq DESC LIMIT $1)`,
		MaxStoredAlerts); err != nil {
		return models.Alert{}, fmt.Errorf("trim alerts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Alert{}, err
	}
	return alert, nil
}

func (s *SQLAlertStore) List(ctx context.Context) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM alerts ORDER BY seq DESC LIMIT $1`, ListedAlerts)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts := []models.Alert{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var a models.Alert
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, fmt.Errorf("decode alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

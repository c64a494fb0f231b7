package history

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/askcmd/internal/domain"
	"github.com/doeshing/askcmd/internal/ports"
)

// SQLiteIndex mirrors ledger entries into a SQLite database so history can
// be searched and aggregated. The ledger file stays the source of truth; a
// missing or broken database degrades every method to a no-op.
type SQLiteIndex struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteIndex creates (or opens) the database next to the ledger.
func NewSQLiteIndex(dir string) *SQLiteIndex {
	path := filepath.Join(dir, "history.db")
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return &SQLiteIndex{path: path}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteIndex{path: path}
	}
	index := &SQLiteIndex{db: db, path: path}
	if err := index.init(); err != nil {
		_ = db.Close()
		return &SQLiteIndex{path: path}
	}
	return index
}

func (s *SQLiteIndex) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		status TEXT,
		query TEXT,
		command TEXT
	);`)
	return err
}

// Insert mirrors one ledger entry.
func (s *SQLiteIndex) Insert(entry domain.HistoryEntry) error {
	if s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(
		`INSERT INTO entries (timestamp, status, query, command) VALUES (?, ?, ?, ?)`,
		entry.Timestamp.Format(time.RFC3339),
		string(entry.Status),
		entry.Query,
		entry.Command,
	)
	return err
}

// Search returns entries whose query or command contains the keyword,
// newest first.
func (s *SQLiteIndex) Search(keyword string, limit int) ([]domain.HistoryEntry, error) {
	if s.db == nil {
		return nil, nil
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, status, query, command FROM entries")
	var args []interface{}
	if keyword != "" {
		builder.WriteString(" WHERE query LIKE ? OR command LIKE ?")
		args = append(args, "%"+keyword+"%", "%"+keyword+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var ts, status string
		if err := rows.Scan(&ts, &status, &entry.Query, &entry.Command); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.Timestamp = t
		}
		entry.Status = domain.Status(status)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Stats counts entries per status.
func (s *SQLiteIndex) Stats() (map[domain.Status]int, error) {
	if s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM entries GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[domain.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[domain.Status(status)] = count
	}
	return stats, rows.Err()
}

// Clear deletes all indexed entries.
func (s *SQLiteIndex) Clear() error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec(`DELETE FROM entries`)
	return err
}

// ExportJSON writes all indexed entries to a JSONL file.
func (s *SQLiteIndex) ExportJSON(dest string) error {
	entries, err := s.Search("", 0)
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the database path.
func (s *SQLiteIndex) Path() string {
	return s.path
}

// Healthy reports whether the backing database opened successfully.
func (s *SQLiteIndex) Healthy() bool {
	return s.db != nil
}

var _ ports.HistoryIndex = (*SQLiteIndex)(nil)

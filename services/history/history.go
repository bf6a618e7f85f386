package history

import (
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"

	"github.com/on1659/DanggeunSearch/logger"
	errs "github.com/on1659/DanggeunSearch/pkg/errors"
)

// AnonymousUser is recorded when a search carries no display name
const AnonymousUser = "Anonymous"

const schema = `
CREATE TABLE IF NOT EXISTS search_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_name TEXT,
	query TEXT NOT NULL,
	regions TEXT,
	region_count INTEGER,
	result_count INTEGER,
	ip_address TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// Store persists the search log in a local sqlite database
type Store struct {
	db *sql.DB
}

// Record is one completed search to be logged
type Record struct {
	UserName    string
	Query       string
	Regions     []string
	ResultCount int
	IPAddress   string
}

// Entry is one row of the search log
type Entry struct {
	ID          int64  `json:"id"`
	UserName    string `json:"userName"`
	Query       string `json:"query"`
	Regions     string `json:"regions"`
	RegionCount int    `json:"regionCount"`
	ResultCount int    `json:"resultCount"`
	IPAddress   string `json:"ipAddress"`
	Timestamp   string `json:"timestamp"`
}

// PopularQuery is a query text with its occurrence count
type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// NewStore opens (and if needed creates) the search log database
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errs.NewHistory("failed to open search log database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errs.NewHistory("failed to create search_logs table", err)
	}

	logger.ForHistory().Info().Str("path", path).Msg("Search log database ready")
	return &Store{db: db}, nil
}

// LogSearch inserts one search record and returns its row id
func (s *Store) LogSearch(rec Record) (int64, error) {
	userName := rec.UserName
	if userName == "" {
		userName = AnonymousUser
	}

	regionsJSON, err := json.Marshal(rec.Regions)
	if err != nil {
		return 0, errs.NewHistory("failed to encode regions", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO search_logs (user_name, query, regions, region_count, result_count, ip_address)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userName, rec.Query, string(regionsJSON), len(rec.Regions), rec.ResultCount, rec.IPAddress,
	)
	if err != nil {
		return 0, errs.NewHistory("failed to insert search log", err)
	}
	return result.LastInsertId()
}

// RecentSearches returns the most recent log entries
func (s *Store) RecentSearches(limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, user_name, query, regions, region_count, result_count, ip_address, timestamp
		 FROM search_logs ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errs.NewHistory("failed to query recent searches", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// PopularSearches returns the most frequent non-empty queries
func (s *Store) PopularSearches(limit int) ([]PopularQuery, error) {
	rows, err := s.db.Query(
		`SELECT query, COUNT(*) as count FROM search_logs
		 WHERE query != '' GROUP BY query ORDER BY count DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errs.NewHistory("failed to query popular searches", err)
	}
	defer rows.Close()

	var popular []PopularQuery
	for rows.Next() {
		var p PopularQuery
		if err := rows.Scan(&p.Query, &p.Count); err != nil {
			return nil, errs.NewHistory("failed to scan popular search", err)
		}
		popular = append(popular, p)
	}
	return popular, rows.Err()
}

// UserSearches returns the log entries for one user name
func (s *Store) UserSearches(userName string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, user_name, query, regions, region_count, result_count, ip_address, timestamp
		 FROM search_logs WHERE user_name = ? ORDER BY timestamp DESC LIMIT ?`, userName, limit)
	if err != nil {
		return nil, errs.NewHistory("failed to query user searches", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserName, &e.Query, &e.Regions,
			&e.RegionCount, &e.ResultCount, &e.IPAddress, &e.Timestamp); err != nil {
			return nil, errs.NewHistory("failed to scan search log entry", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

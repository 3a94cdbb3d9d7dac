// Package coursestore caches extracted section records in sqlite, keyed by
// the exact query that produced them. The schedule site is slow and
// rate-limited, so repeat lookups within a term should never hit it twice.
package coursestore

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"coursewatch-backend/lib/scrapers/eagle"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const Schema = `
CREATE TABLE IF NOT EXISTS course_snapshots (
	key TEXT NOT NULL PRIMARY KEY,
	records TEXT NOT NULL,
	scraped_at INTEGER NOT NULL
);
`

// ErrMiss is returned by Get when no snapshot exists for the query.
var ErrMiss = errors.New("coursestore: no snapshot for query")

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) (Store, error) {
	_, err := database.Exec(Schema)
	if err != nil {
		return Store{}, err
	}
	return Store{db: database}, nil
}

// Query identifies one cached extraction. Filters are part of the key:
// a filtered result set is its own snapshot, never derived from an
// unfiltered one at read time.
type Query struct {
	Term         string
	Subject      string
	CourseFilter string
	CampusFilter string
}

func (q Query) Key() string {
	course := q.CourseFilter
	if course == "" {
		course = "all"
	}
	campus := q.CampusFilter
	if campus == "" {
		campus = "all"
	}
	sum := md5.Sum([]byte(q.Term + "_" + q.Subject + "_" + course + "_" + campus))
	return hex.EncodeToString(sum[:])
}

type Snapshot struct {
	Records   []eagle.CourseRecord
	ScrapedAt time.Time
}

func (s Store) Get(ctx context.Context, q Query) (Snapshot, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT records, scraped_at FROM course_snapshots WHERE key = ?`,
		q.Key(),
	)

	var raw string
	var scrapedAt int64
	err := row.Scan(&raw, &scrapedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrMiss
	}
	if err != nil {
		return Snapshot{}, err
	}

	var records []eagle.CourseRecord
	err = json.Unmarshal([]byte(raw), &records)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Records:   records,
		ScrapedAt: time.Unix(scrapedAt, 0),
	}, nil
}

func (s Store) Put(ctx context.Context, q Query, records []eagle.CourseRecord, scrapedAt time.Time) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO course_snapshots (key, records, scraped_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET records = excluded.records, scraped_at = excluded.scraped_at`,
		q.Key(), string(raw), scrapedAt.Unix(),
	)
	return err
}

package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string `json:"db_path"`
	DBSizeBytes int64  `json:"db_size_bytes"`
	Persons     int    `json:"persons"`
	MultiValues int    `json:"multi_values"`
	Groups      int    `json:"groups"`
	Members     int    `json:"members"`
}

// Stats returns row counts for the tables an extraction reads.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{DBPath: s.path}

	if info, err := os.Stat(s.path); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM ABPerson`, &st.Persons},
		{`SELECT COUNT(*) FROM ABMultiValue`, &st.MultiValues},
		{`SELECT COUNT(*) FROM ABGroup`, &st.Groups},
		{`SELECT COUNT(*) FROM ABGroupMembers`, &st.Members},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return st, err
		}
	}
	return st, nil
}

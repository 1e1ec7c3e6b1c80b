//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package exp

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	_ "github.com/mattn/go-sqlite3"
)

// the same three views the file artifacts carry, plus the run row; pos keeps
// the canonical ordering so a reload does not depend on the query planner

const sqliteschema = `
CREATE TABLE runs (
	run_id TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL,
	metric TEXT NOT NULL,
	n INTEGER NOT NULL,
	dim INTEGER NOT NULL,
	k INTEGER NOT NULL,
	k_min INTEGER NOT NULL,
	k_max INTEGER NOT NULL,
	silhouette REAL NOT NULL,
	elbow_k INTEGER NOT NULL
);
CREATE TABLE clusters (
	cluster_id INTEGER PRIMARY KEY,
	size INTEGER NOT NULL,
	medoid TEXT NOT NULL,
	medoid_index INTEGER NOT NULL,
	mean_fit REAL NOT NULL
);
CREATE TABLE assignments (
	pos INTEGER PRIMARY KEY,
	lemma TEXT NOT NULL UNIQUE,
	cluster_id INTEGER NOT NULL REFERENCES clusters(cluster_id),
	cluster_size INTEGER NOT NULL,
	fit REAL NOT NULL
);
CREATE TABLE diagnostics (
	k INTEGER PRIMARY KEY,
	silhouette REAL NOT NULL,
	wcss REAL NOT NULL,
	has_wcss INTEGER NOT NULL
);`

// WriteSQLite - write the verified bundle into a fresh SQLite database file.
// Everything lands in one transaction: the file either holds the whole run or
// does not exist.
func WriteSQLite(b *str.ClusterBundle, path string) error {
	const (
		MSG1 = "WriteSQLite() wrote %d clusters and %d assignments to '%s'"
	)

	// a leftover database from an earlier run must not shine through
	_ = os.Remove(path)

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(sqliteschema); err != nil {
		return err
	}

	if _, err = tx.Exec(`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.RunID, b.Fingerprint, b.Metric, b.N, b.Dim, b.K, b.KMin, b.KMax, b.Silhouette, b.ElbowK); err != nil {
		return err
	}

	cstmt, err := tx.Prepare(`INSERT INTO clusters VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	for _, s := range b.Summaries {
		if _, err = cstmt.Exec(s.ID, s.Size, s.Medoid, s.MedoidIndex, s.MeanFit); err != nil {
			_ = cstmt.Close()
			return err
		}
	}
	_ = cstmt.Close()

	astmt, err := tx.Prepare(`INSERT INTO assignments VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	for pos, a := range b.Assignments {
		if _, err = astmt.Exec(pos, a.Lemma, a.ClusterID, a.ClusterSize, a.Fit); err != nil {
			_ = astmt.Close()
			return err
		}
	}
	_ = astmt.Close()

	dstmt, err := tx.Prepare(`INSERT INTO diagnostics VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	for _, d := range b.Diagnostics {
		hw := 0
		if d.HasWCSS {
			hw = 1
		}
		if _, err = dstmt.Exec(d.K, d.Silhouette, d.WCSS, hw); err != nil {
			_ = dstmt.Close()
			return err
		}
	}
	_ = dstmt.Close()

	if err = tx.Commit(); err != nil {
		return err
	}

	Msg.PEEK(fmt.Sprintf(MSG1, len(b.Summaries), len(b.Assignments), path))
	return nil
}

// ReadSQLite - load a stored run back into a bundle. The member lists are
// rebuilt from the assignment order, which is the same canonical ordering
// they were sorted into before the write; Generated and the raw-id map are
// cache metadata and are not persisted.
func ReadSQLite(path string) (*str.ClusterBundle, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	b := &str.ClusterBundle{Members: make(map[int][]str.ClusterMember)}

	row := db.QueryRow(`SELECT run_id, fingerprint, metric, n, dim, k, k_min, k_max, silhouette, elbow_k FROM runs`)
	if err = row.Scan(&b.RunID, &b.Fingerprint, &b.Metric, &b.N, &b.Dim, &b.K,
		&b.KMin, &b.KMax, &b.Silhouette, &b.ElbowK); err != nil {
		return nil, err
	}

	crows, err := db.Query(`SELECT cluster_id, size, medoid, medoid_index, mean_fit FROM clusters ORDER BY cluster_id`)
	if err != nil {
		return nil, err
	}
	for crows.Next() {
		var s str.ClusterSummary
		if err = crows.Scan(&s.ID, &s.Size, &s.Medoid, &s.MedoidIndex, &s.MeanFit); err != nil {
			_ = crows.Close()
			return nil, err
		}
		b.Summaries = append(b.Summaries, s)
	}
	if err = crows.Err(); err != nil {
		_ = crows.Close()
		return nil, err
	}
	_ = crows.Close()

	arows, err := db.Query(`SELECT lemma, cluster_id, cluster_size, fit FROM assignments ORDER BY pos`)
	if err != nil {
		return nil, err
	}
	for arows.Next() {
		var a str.AssignmentRow
		if err = arows.Scan(&a.Lemma, &a.ClusterID, &a.ClusterSize, &a.Fit); err != nil {
			_ = arows.Close()
			return nil, err
		}
		b.Assignments = append(b.Assignments, a)
		b.Members[a.ClusterID] = append(b.Members[a.ClusterID], str.ClusterMember{Lemma: a.Lemma, Fit: a.Fit})
	}
	if err = arows.Err(); err != nil {
		_ = arows.Close()
		return nil, err
	}
	_ = arows.Close()

	drows, err := db.Query(`SELECT k, silhouette, wcss, has_wcss FROM diagnostics ORDER BY k`)
	if err != nil {
		return nil, err
	}
	for drows.Next() {
		var d str.KDiagnostic
		var hw int
		if err = drows.Scan(&d.K, &d.Silhouette, &d.WCSS, &hw); err != nil {
			_ = drows.Close()
			return nil, err
		}
		d.HasWCSS = hw == 1
		b.Diagnostics = append(b.Diagnostics, d)
	}
	if err = drows.Err(); err != nil {
		_ = drows.Close()
		return nil, err
	}
	_ = drows.Close()

	return b, nil
}

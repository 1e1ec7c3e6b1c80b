//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"github.com/jackc/pgx/v5"
)

//
// a finished run is stored whole: one gzip'd JSON blob per fingerprint; the metadata
// columns exist only so the stored runs can be listed without unzipping anything
//

// squash - gzip a byte slice for bytea storage
func squash(b []byte) []byte {
	const (
		GZ = gzip.BestSpeed
	)

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, GZ)
	Msg.EC(err)
	_, err = zw.Write(b)
	Msg.EC(err)
	err = zw.Close()
	Msg.EC(err)
	return buf.Bytes()
}

// unsquash - reverse squash()
func unsquash(b []byte) []byte {
	var buf bytes.Buffer
	buf.Write(b)

	zr, err := gzip.NewReader(&buf)
	Msg.EC(err)
	decompr, err := io.ReadAll(zr)
	Msg.EC(err)
	err = zr.Close()
	Msg.EC(err)
	return decompr
}

// BundleDBInit - initialize vv.CLUSTERTABLENAME
func BundleDBInit() {
	const (
		CREATE = `
			CREATE TABLE %s
			(
			  fingerprint character(32),
			  runid       character(32),
			  generated   timestamptz,
			  metric      text,
			  lemmata     int,
			  kchosen     int,
			  bundlesize  int,
			  bundledata  bytea
			)`
		EXISTS = "already exists"
	)

	ex := fmt.Sprintf(CREATE, vv.CLUSTERTABLENAME)
	_, err := SQLPool.Exec(context.Background(), ex)
	if err != nil {
		m := err.Error()
		if !strings.Contains(m, EXISTS) {
			Msg.EC(err)
		}
	} else {
		Msg.FYI("BundleDBInit(): success")
	}
}

// BundleDBCheck - has a run with this fingerprint already been stored?
func BundleDBCheck(fp string) bool {
	const (
		Q   = `SELECT fingerprint FROM %s WHERE fingerprint = '%s' LIMIT 1`
		F   = `BundleDBCheck() found %s`
		DNE = "does not exist"
	)

	q := fmt.Sprintf(Q, vv.CLUSTERTABLENAME, fp)
	foundrow, err := SQLPool.Query(context.Background(), q)
	if err != nil {
		m := err.Error()
		if strings.Contains(m, DNE) {
			BundleDBInit()
		}
		return false
	}

	type simplestring struct {
		S string
	}

	ss, err := pgx.CollectOneRow(foundrow, pgx.RowToStructByPos[simplestring])
	if err != nil {
		// "no rows in result set" means the fingerprint is not there yet
		return false
	} else {
		Msg.TMI(fmt.Sprintf(F, ss.S))
		return true
	}
}

// BundleDBAdd - store a finished run in vv.CLUSTERTABLENAME keyed by its fingerprint
func BundleDBAdd(b *str.ClusterBundle) {
	const (
		MSG1 = "BundleDBAdd(): "
		MSG2 = "BundleDBAdd() was sent an empty bundle"
		FAIL = "BundleDBAdd() failed when calling json.Marshal(b): nothing stored"
		DNE  = "does not exist"
		INS  = `
			INSERT INTO %s
				(fingerprint, runid, generated, metric, lemmata, kchosen, bundlesize, bundledata)
			VALUES ('%s', '%s', $1, $2, $3, $4, $5, $6)`
	)

	if b == nil || b.N == 0 {
		Msg.PEEK(MSG2)
		return
	}

	eb, err := json.Marshal(b)
	if err != nil {
		Msg.NOTE(FAIL)
		return
	}

	zb := squash(eb)

	ex := fmt.Sprintf(INS, vv.CLUSTERTABLENAME, b.Fingerprint, b.RunID)
	_, err = SQLPool.Exec(context.Background(), ex, b.Generated, b.Metric, b.N, b.K, len(zb), zb)
	if err != nil && strings.Contains(err.Error(), DNE) {
		// "-rv" can skip the check that would have built the table
		BundleDBInit()
		_, err = SQLPool.Exec(context.Background(), ex, b.Generated, b.Metric, b.N, b.K, len(zb), zb)
	}
	Msg.EC(err)
	Msg.TMI(MSG1 + b.Fingerprint)
}

// BundleDBFetch - get a stored run back out of vv.CLUSTERTABLENAME; call BundleDBCheck() first
func BundleDBFetch(fp string) *str.ClusterBundle {
	const (
		MSG1 = "BundleDBFetch(): "
		MSG2 = "BundleDBFetch() pulled an empty bundle for %s"
		Q    = `SELECT bundledata FROM %s WHERE fingerprint = '%s' LIMIT 1`
	)

	q := fmt.Sprintf(Q, vv.CLUSTERTABLENAME, fp)
	var blob []byte
	foundrow, err := SQLPool.Query(context.Background(), q)
	Msg.EC(err)

	defer foundrow.Close()
	for foundrow.Next() {
		err = foundrow.Scan(&blob)
		Msg.EC(err)
	}

	var b str.ClusterBundle
	err = json.Unmarshal(unsquash(blob), &b)
	Msg.EC(err)

	if b.N == 0 {
		Msg.NOTE(fmt.Sprintf(MSG2, fp))
	}

	Msg.PEEK(MSG1 + fp)

	return &b
}

// BundleDBList - the stored runs, newest first, without touching the blobs
func BundleDBList() []str.StoredRun {
	const (
		Q   = `SELECT fingerprint, runid, generated, metric, lemmata, kchosen, bundlesize FROM %s ORDER BY generated DESC`
		DNE = "does not exist"
	)

	q := fmt.Sprintf(Q, vv.CLUSTERTABLENAME)
	foundrows, err := SQLPool.Query(context.Background(), q)
	if err != nil {
		m := err.Error()
		if strings.Contains(m, DNE) {
			BundleDBInit()
		}
		return []str.StoredRun{}
	}

	rr, err := pgx.CollectRows(foundrows, pgx.RowToStructByPos[str.StoredRun])
	if err != nil {
		return []str.StoredRun{}
	}
	return rr
}

// BundleDBReset - drop vv.CLUSTERTABLENAME
func BundleDBReset() {
	const (
		MSG1 = "BundleDBReset() dropped "
		MSG2 = "BundleDBReset(): 'DROP TABLE %s' returned an (ignored) error: \n\t%s"
		E    = `DROP TABLE %s`
	)

	ex := fmt.Sprintf(E, vv.CLUSTERTABLENAME)
	_, err := SQLPool.Exec(context.Background(), ex)
	if err != nil {
		ms := err.Error()
		Msg.TMI(fmt.Sprintf(MSG2, vv.CLUSTERTABLENAME, ms))
	} else {
		Msg.NOTE(MSG1 + vv.CLUSTERTABLENAME)
	}
}

// BundleDBCount - how many stored runs are there?
func BundleDBCount(priority int) {
	const (
		SZQ  = "SELECT COUNT(fingerprint) AS total FROM " + vv.CLUSTERTABLENAME
		MSG4 = "Number of stored cluster runs: %d"
		DNE  = "does not exist"
	)

	var size int64
	err := SQLPool.QueryRow(context.Background(), SZQ).Scan(&size)
	if err != nil {
		m := err.Error()
		if strings.Contains(m, DNE) {
			BundleDBInit()
		}
		size = 0
	}
	Msg.Emit(fmt.Sprintf(MSG4, size), priority)
}

// BundleDBSize - how much space are the stored runs using?
func BundleDBSize(priority int) {
	const (
		SZQ  = "SELECT COALESCE(SUM(bundlesize), 0) AS total FROM " + vv.CLUSTERTABLENAME
		MSG4 = "Disk space used by stored cluster runs is currently %dKB"
		DNE  = "does not exist"
	)

	var size int64
	err := SQLPool.QueryRow(context.Background(), SZQ).Scan(&size)
	if err != nil {
		m := err.Error()
		if strings.Contains(m, DNE) {
			BundleDBInit()
		}
		size = 0
	}
	Msg.Emit(fmt.Sprintf(MSG4, size/1024), priority)
}

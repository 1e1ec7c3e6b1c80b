//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"github.com/e-gun/wego/pkg/embedding"
	"github.com/jackc/pgx/v5"
)

//
// a large embedding file parses slowly; cache the parsed form keyed by the
// md5 of the file so the next run over the same matrix skips the parse
//

// EmbDBInit - initialize vv.EMBTABLENAME
func EmbDBInit() {
	const (
		CREATE = `
			CREATE TABLE %s
			(
			  fingerprint character(32),
			  vectorsize  int,
			  vectordata  bytea
			)`
		EXISTS = "already exists"
	)

	ex := fmt.Sprintf(CREATE, vv.EMBTABLENAME)
	_, err := SQLPool.Exec(context.Background(), ex)
	if err != nil {
		m := err.Error()
		if !strings.Contains(m, EXISTS) {
			Msg.EC(err)
		}
	} else {
		Msg.FYI("EmbDBInit(): success")
	}
}

// EmbDBCheck - is a parsed copy of the embedding file with this fingerprint stored?
func EmbDBCheck(fp string) bool {
	const (
		Q   = `SELECT fingerprint FROM %s WHERE fingerprint = '%s' LIMIT 1`
		F   = `EmbDBCheck() found %s`
		DNE = "does not exist"
	)

	q := fmt.Sprintf(Q, vv.EMBTABLENAME, fp)
	foundrow, err := SQLPool.Query(context.Background(), q)
	if err != nil {
		m := err.Error()
		if strings.Contains(m, DNE) {
			EmbDBInit()
		}
		return false
	}

	type simplestring struct {
		S string
	}

	ss, err := pgx.CollectOneRow(foundrow, pgx.RowToStructByPos[simplestring])
	if err != nil {
		return false
	} else {
		Msg.TMI(fmt.Sprintf(F, ss.S))
		return true
	}
}

// EmbDBAdd - add a parsed set of embeddings to vv.EMBTABLENAME
func EmbDBAdd(fp string, embs embedding.Embeddings) {
	const (
		MSG1 = "EmbDBAdd(): "
		MSG2 = "EmbDBAdd() was sent empty embeddings"
		FAIL = "EmbDBAdd() failed when calling json.Marshal(embs): nothing stored"
		DNE  = "does not exist"
		INS  = `
			INSERT INTO %s
				(fingerprint, vectorsize, vectordata)
			VALUES ('%s', $1, $2)`
	)

	if embs.Empty() {
		Msg.PEEK(MSG2)
		return
	}

	eb, err := json.Marshal(embs)
	if err != nil {
		Msg.NOTE(FAIL)
		return
	}

	zb := squash(eb)

	ex := fmt.Sprintf(INS, vv.EMBTABLENAME, fp)
	_, err = SQLPool.Exec(context.Background(), ex, len(zb), zb)
	if err != nil && strings.Contains(err.Error(), DNE) {
		// "-rv" can skip the check that would have built the table
		EmbDBInit()
		_, err = SQLPool.Exec(context.Background(), ex, len(zb), zb)
	}
	Msg.EC(err)
	Msg.TMI(MSG1 + fp)
}

// EmbDBFetch - get a parsed set of embeddings from vv.EMBTABLENAME; call EmbDBCheck() first
func EmbDBFetch(fp string) embedding.Embeddings {
	const (
		MSG1 = "EmbDBFetch(): "
		MSG2 = "EmbDBFetch() pulled an empty set of embeddings for %s"
		Q    = `SELECT vectordata FROM %s WHERE fingerprint = '%s' LIMIT 1`
	)

	q := fmt.Sprintf(Q, vv.EMBTABLENAME, fp)
	var blob []byte
	foundrow, err := SQLPool.Query(context.Background(), q)
	Msg.EC(err)

	defer foundrow.Close()
	for foundrow.Next() {
		err = foundrow.Scan(&blob)
		Msg.EC(err)
	}

	var emb embedding.Embeddings
	err = json.Unmarshal(unsquash(blob), &emb)
	Msg.EC(err)

	if emb.Empty() {
		Msg.NOTE(fmt.Sprintf(MSG2, fp))
	}

	Msg.PEEK(MSG1 + fp)

	return emb
}

// EmbDBReset - drop vv.EMBTABLENAME
func EmbDBReset() {
	const (
		MSG1 = "EmbDBReset() dropped "
		MSG2 = "EmbDBReset(): 'DROP TABLE %s' returned an (ignored) error: \n\t%s"
		E    = `DROP TABLE %s`
	)

	ex := fmt.Sprintf(E, vv.EMBTABLENAME)
	_, err := SQLPool.Exec(context.Background(), ex)
	if err != nil {
		ms := err.Error()
		Msg.TMI(fmt.Sprintf(MSG2, vv.EMBTABLENAME, ms))
	} else {
		Msg.NOTE(MSG1 + vv.EMBTABLENAME)
	}
}

// WipeCaches - "-00": drop every cache table and report what happened
func WipeCaches() {
	const (
		MSG = "WipeCaches() removed the stored cluster runs and the stored embeddings"
	)

	BundleDBReset()
	EmbDBReset()
	Msg.CRIT(MSG)
}

//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/e-gun/HipparchiaGoClusterer/internal/clu"
	"github.com/e-gun/HipparchiaGoClusterer/internal/gen"
	"github.com/e-gun/HipparchiaGoClusterer/internal/lnch"
	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
	"github.com/e-gun/wego/pkg/embedding"
	"gonum.org/v1/gonum/mat"
)

var Msg = lnch.NewMessageMakerWithDefaults()

// LoadEmbeddings - parse a word2vec-text embedding file into wego embeddings
func LoadEmbeddings(path string) (embedding.Embeddings, error) {
	const (
		FAIL1 = "cannot open the embedding file '%s': %w"
		FAIL2 = "cannot parse the embedding file '%s': %w"
		FAIL3 = "the embedding file '%s' holds no vectors: %w"
		MSG1  = "LoadEmbeddings() read %d embeddings from %s"
	)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf(FAIL1, path, err)
	}

	embs, err := embedding.Load(f)
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf(FAIL2, path, err)
	}
	if embs.Empty() {
		return nil, fmt.Errorf(FAIL3, path, clu.ErrInvalidInput)
	}

	Msg.PEEK(fmt.Sprintf(MSG1, len(embs), path))
	return embs, nil
}

// BuildLemmaMatrix - filter the embeddings and pack the survivors into the
// run's row matrix. With a restriction set only the listed lemmas survive;
// without one the built-in Greek stoplist is dropped instead. The first
// occurrence of a repeated lemma wins and later repeats are skipped, so the
// row order is the file order and reruns see identical rows.
func BuildLemmaMatrix(embs embedding.Embeddings, retain map[string]struct{}) (*str.LemmaMatrix, error) {
	const (
		FAIL1 = "the embedding vectors are empty: %w"
		FAIL2 = "the embedding for '%s' has %d dimensions where %d were expected: %w"
		FAIL3 = "only %d lemma(s) survive the filter; clustering needs at least 2: %w"
		MSG1  = "BuildLemmaMatrix() skipped %d duplicate lemma(s)"
		MSG2  = "BuildLemmaMatrix() kept %d of %d lemmas"
		MSG3  = "BuildLemmaMatrix() sees %d-dimensional vectors; HipparchiaGoServer emits %d"
	)

	var drop map[string]struct{}
	if retain == nil {
		drop = GreekStops()
	}

	seen := make(map[string]struct{}, len(embs))
	kept := make([]embedding.Embedding, 0, len(embs))
	dupes := 0
	for _, e := range embs {
		if _, dup := seen[e.Word]; dup {
			dupes++
			continue
		}
		seen[e.Word] = struct{}{}
		if retain != nil {
			if _, ok := retain[e.Word]; !ok {
				continue
			}
		} else if _, ok := drop[e.Word]; ok {
			continue
		}
		kept = append(kept, e)
	}

	if dupes > 0 {
		Msg.FYI(fmt.Sprintf(MSG1, dupes))
	}
	if len(kept) < 2 {
		return nil, fmt.Errorf(FAIL3, len(kept), clu.ErrInvalidInput)
	}

	dim := len(kept[0].Vector)
	if dim < 1 {
		return nil, fmt.Errorf(FAIL1, clu.ErrInvalidInput)
	}
	if dim != vv.DEFAULTEMBDIM {
		Msg.FYI(fmt.Sprintf(MSG3, dim, vv.DEFAULTEMBDIM))
	}

	lemmata := make([]string, len(kept))
	flat := make([]float64, 0, len(kept)*dim)
	for i, e := range kept {
		if len(e.Vector) != dim {
			return nil, fmt.Errorf(FAIL2, e.Word, len(e.Vector), dim, clu.ErrInvalidInput)
		}
		lemmata[i] = e.Word
		flat = append(flat, e.Vector...)
	}

	Msg.PEEK(fmt.Sprintf(MSG2, len(kept), len(embs)))

	return &str.LemmaMatrix{Lemmata: lemmata, Dim: dim, Mtx: mat.NewDense(len(kept), dim, flat)}, nil
}

// ReadRestriction - load the lemmas-to-retain list: one lemma per line, blank
// lines and '#' comments skipped
func ReadRestriction(path string) ([]string, error) {
	const (
		FAIL1 = "cannot open the restriction file '%s': %w"
		FAIL2 = "cannot read the restriction file '%s': %w"
		FAIL3 = "the restriction file '%s' names no lemmas"
		MSG1  = "ReadRestriction() will retain %d lemmas"
		// hand-made word lists arrive with BOMs and stray quotes
		PURGE = "\ufeff\"'"
	)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf(FAIL1, path, err)
	}

	var lemmata []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		l := strings.TrimSpace(gen.Purgechars(PURGE, scanner.Text()))
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		lemmata = append(lemmata, l)
	}
	e := scanner.Err()
	_ = f.Close()
	if e != nil {
		return nil, fmt.Errorf(FAIL2, path, e)
	}

	// hand-made lists repeat themselves; the first occurrence keeps its place
	seen := make(map[string]struct{}, len(lemmata))
	kept := make([]string, 0, len(lemmata))
	for _, l := range lemmata {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		kept = append(kept, l)
	}
	lemmata = kept

	if len(lemmata) == 0 {
		return nil, fmt.Errorf(FAIL3, path)
	}

	Msg.PEEK(fmt.Sprintf(MSG1, len(lemmata)))
	return lemmata, nil
}

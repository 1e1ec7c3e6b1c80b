//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/e-gun/HipparchiaGoClusterer/internal/clu"
	"github.com/e-gun/wego/pkg/embedding"
)

func TestLoadEmbeddingsFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "vectors.txt")
	content := "ϲοφία 0.1 0.2 0.3\nἀρετή 0.4 0.5 0.6\n"
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("could not stage the fixture: %v", err)
	}

	embs, err := LoadEmbeddings(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(embs) != 2 {
		t.Fatalf("loaded %d embeddings, want 2", len(embs))
	}
	if embs[0].Word != "ϲοφία" || embs[1].Word != "ἀρετή" {
		t.Errorf("words = %q, %q", embs[0].Word, embs[1].Word)
	}
	if len(embs[0].Vector) != 3 || embs[0].Vector[2] != 0.3 {
		t.Errorf("vector = %v, want [0.1 0.2 0.3]", embs[0].Vector)
	}
}

func TestLoadEmbeddingsMissingFile(t *testing.T) {
	if _, err := LoadEmbeddings(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("a missing file must not load")
	}
}

func TestLoadEmbeddingsEmptyFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(p, nil, 0644); err != nil {
		t.Fatalf("could not stage the fixture: %v", err)
	}

	if _, err := LoadEmbeddings(p); !errors.Is(err, clu.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestBuildLemmaMatrixWithRetention(t *testing.T) {
	embs := embedding.Embeddings{
		{Word: "ϲοφία", Dim: 2, Vector: []float64{1, 0}},
		{Word: "ἀρετή", Dim: 2, Vector: []float64{0, 1}},
		{Word: "ἵπποϲ", Dim: 2, Vector: []float64{1, 1}},
	}
	retain := map[string]struct{}{"ϲοφία": {}, "ἵπποϲ": {}}

	lm, err := BuildLemmaMatrix(embs, retain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lm.N() != 2 || lm.Dim != 2 {
		t.Fatalf("matrix is %dx%d, want 2x2", lm.N(), lm.Dim)
	}
	if lm.Lemmata[0] != "ϲοφία" || lm.Lemmata[1] != "ἵπποϲ" {
		t.Errorf("lemmata = %v, want file order preserved", lm.Lemmata)
	}
	if r := lm.Row(1); r[0] != 1 || r[1] != 1 {
		t.Errorf("row 1 = %v, want [1 1]", r)
	}
}

func TestBuildLemmaMatrixDefaultStoplist(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	embs := embedding.Embeddings{
		{Word: "καί", Dim: 2, Vector: []float64{9, 9}},   // stopword
		{Word: "ψυχή", Dim: 2, Vector: []float64{1, 0}},  // stoplisted but keep-listed
		{Word: "ϲοφία", Dim: 2, Vector: []float64{0, 1}}, // plain vocabulary
		{Word: "ἀρετή", Dim: 2, Vector: []float64{1, 1}},
	}

	lm, err := BuildLemmaMatrix(embs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"ψυχή", "ϲοφία", "ἀρετή"}
	if lm.N() != len(want) {
		t.Fatalf("kept %d lemmas, want %d: %v", lm.N(), len(want), lm.Lemmata)
	}
	for i, w := range want {
		if lm.Lemmata[i] != w {
			t.Errorf("lemmata[%d] = %q, want %q", i, lm.Lemmata[i], w)
		}
	}
}

func TestBuildLemmaMatrixFirstOccurrenceWins(t *testing.T) {
	embs := embedding.Embeddings{
		{Word: "ϲοφία", Dim: 1, Vector: []float64{1}},
		{Word: "ϲοφία", Dim: 1, Vector: []float64{99}},
		{Word: "ἀρετή", Dim: 1, Vector: []float64{2}},
	}
	retain := map[string]struct{}{"ϲοφία": {}, "ἀρετή": {}}

	lm, err := BuildLemmaMatrix(embs, retain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lm.N() != 2 {
		t.Fatalf("kept %d lemmas, want 2", lm.N())
	}
	if lm.Row(0)[0] != 1 {
		t.Errorf("duplicate did not keep the first vector: %v", lm.Row(0))
	}
}

func TestBuildLemmaMatrixRaggedRows(t *testing.T) {
	embs := embedding.Embeddings{
		{Word: "ϲοφία", Dim: 2, Vector: []float64{1, 0}},
		{Word: "ἀρετή", Dim: 3, Vector: []float64{0, 1, 2}},
	}
	retain := map[string]struct{}{"ϲοφία": {}, "ἀρετή": {}}

	_, err := BuildLemmaMatrix(embs, retain)
	if !errors.Is(err, clu.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	if !strings.Contains(err.Error(), "ἀρετή") {
		t.Errorf("error %q does not name the ragged lemma", err)
	}
}

func TestBuildLemmaMatrixNeedsTwoSurvivors(t *testing.T) {
	embs := embedding.Embeddings{
		{Word: "ϲοφία", Dim: 2, Vector: []float64{1, 0}},
		{Word: "ἀρετή", Dim: 2, Vector: []float64{0, 1}},
	}
	retain := map[string]struct{}{"ϲοφία": {}}

	if _, err := BuildLemmaMatrix(embs, retain); !errors.Is(err, clu.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestReadRestriction(t *testing.T) {
	p := filepath.Join(t.TempDir(), "lemmas.txt")
	content := "\ufeff# the lemmas to keep\n\"ϲοφία\"\n\n  ἀρετή  \nϲοφία\n# done\n"
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("could not stage the fixture: %v", err)
	}

	lemmata, err := ReadRestriction(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lemmata) != 2 || lemmata[0] != "ϲοφία" || lemmata[1] != "ἀρετή" {
		t.Errorf("lemmata = %v, want the two entries trimmed, unquoted and deduplicated", lemmata)
	}
}

func TestReadRestrictionEmpty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(p, []byte("# nothing here\n\n"), 0644); err != nil {
		t.Fatalf("could not stage the fixture: %v", err)
	}

	if _, err := ReadRestriction(p); err == nil {
		t.Error("a restriction file without lemmas must not load")
	}
}

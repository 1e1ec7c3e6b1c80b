//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package exp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
)

func TestNestedJSONBytes(t *testing.T) {
	b := testbundle(t)

	var buf bytes.Buffer
	if err := WriteNestedJSON(&buf, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{
  "cluster_1": {"cluster_id": 1, "medoid": "λέξιϲ3", "size": 3, "members": [{"lemma": "λέξιϲ3", "fit": 100.0}, {"lemma": "λέξιϲ2", "fit": 50.0}, {"lemma": "λέξιϲ4", "fit": 50.0}]},
  "cluster_2": {"cluster_id": 2, "medoid": "λέξιϲ0", "size": 2, "members": [{"lemma": "λέξιϲ0", "fit": 100.0}, {"lemma": "λέξιϲ1", "fit": 100.0}]}
}
`
	if buf.String() != want {
		t.Errorf("nested json =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestNestedJSONIsValidJSON(t *testing.T) {
	b := testbundle(t)

	var buf bytes.Buffer
	if err := WriteNestedJSON(&buf, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]struct {
		ClusterID int    `json:"cluster_id"`
		Medoid    string `json:"medoid"`
		Size      int    `json:"size"`
		Members   []struct {
			Lemma string  `json:"lemma"`
			Fit   float64 `json:"fit"`
		} `json:"members"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("artifact does not parse: %v", err)
	}

	c1, ok := parsed["cluster_1"]
	if !ok {
		t.Fatal("cluster_1 key missing")
	}
	if c1.Size != 3 || len(c1.Members) != 3 || c1.Medoid != "λέξιϲ3" {
		t.Errorf("cluster_1 = %+v", c1)
	}
}

func TestNestedJSONKeysStayNumericPastTen(t *testing.T) {
	// lexical map ordering would file cluster_10 before cluster_2
	b := &str.ClusterBundle{Members: make(map[int][]str.ClusterMember)}
	for id := 1; id <= 11; id++ {
		lemma := fmt.Sprintf("λέξιϲ%d", id)
		b.Summaries = append(b.Summaries, str.ClusterSummary{ID: id, Size: 1, Medoid: lemma})
		b.Members[id] = []str.ClusterMember{{Lemma: lemma, Fit: 100.0}}
	}

	var buf bytes.Buffer
	if err := WriteNestedJSON(&buf, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := buf.String()
	if strings.Index(s, `"cluster_2"`) > strings.Index(s, `"cluster_10"`) {
		t.Error("cluster_10 was emitted before cluster_2")
	}
	if strings.Index(s, `"cluster_10"`) > strings.Index(s, `"cluster_11"`) {
		t.Error("cluster_11 was emitted before cluster_10")
	}
}

//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package exp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
)

// WriteNestedJSON - the nested artifact: one object keyed "cluster_<id>" in
// ascending id order. A Go map would marshal its keys lexically and put
// cluster_10 before cluster_2, so the object is assembled by hand; the member
// fits are printed at the same one-decimal precision the CSV tables use.
func WriteNestedJSON(w io.Writer, b *str.ClusterBundle) error {
	var buf bytes.Buffer

	buf.WriteString("{\n")
	for i, s := range b.Summaries {
		key, err := json.Marshal(fmt.Sprintf("cluster_%d", s.ID))
		if err != nil {
			return err
		}
		medoid, err := json.Marshal(s.Medoid)
		if err != nil {
			return err
		}

		fmt.Fprintf(&buf, "  %s: {\"cluster_id\": %d, \"medoid\": %s, \"size\": %d, \"members\": [",
			key, s.ID, medoid, s.Size)

		for j, m := range b.Members[s.ID] {
			lemma, err := json.Marshal(m.Lemma)
			if err != nil {
				return err
			}
			if j > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "{\"lemma\": %s, \"fit\": %s}", lemma, fit1(m.Fit))
		}

		buf.WriteString("]}")
		if i < len(b.Summaries)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

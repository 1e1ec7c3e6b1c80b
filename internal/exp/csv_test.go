//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package exp

import (
	"bytes"
	"testing"

	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
)

func TestFlatCSVBytes(t *testing.T) {
	b := testbundle(t)

	var buf bytes.Buffer
	if err := WriteFlatCSV(&buf, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "lemma,cluster_id,cluster_size,fit\n" +
		"λέξιϲ3,1,3,100.0\n" +
		"λέξιϲ2,1,3,50.0\n" +
		"λέξιϲ4,1,3,50.0\n" +
		"λέξιϲ0,2,2,100.0\n" +
		"λέξιϲ1,2,2,100.0\n"

	if buf.String() != want {
		t.Errorf("flat csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestSummaryCSVBytes(t *testing.T) {
	b := testbundle(t)

	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "cluster_id,size,medoid,medoid_index,mean_fit\n" +
		"1,3,λέξιϲ3,3,66.7\n" +
		"2,2,λέξιϲ0,0,100.0\n"

	if buf.String() != want {
		t.Errorf("summary csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestDiagnosticsCSVWithWCSS(t *testing.T) {
	b := testbundle(t)

	var buf bytes.Buffer
	if err := WriteDiagnosticsCSV(&buf, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "k,silhouette,wcss\n" +
		"2,0.9250,4.0000\n" +
		"3,0.5500,2.5000\n" +
		"4,0.2500,1.0000\n"

	if buf.String() != want {
		t.Errorf("diagnostics csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestDiagnosticsCSVWithoutWCSS(t *testing.T) {
	// a cosine run carries no elbow curve and the column disappears
	b := &str.ClusterBundle{
		Diagnostics: []str.KDiagnostic{
			{K: 2, Silhouette: 0.5},
			{K: 3, Silhouette: 0.25},
		},
	}

	var buf bytes.Buffer
	if err := WriteDiagnosticsCSV(&buf, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "k,silhouette\n2,0.5000\n3,0.2500\n"
	if buf.String() != want {
		t.Errorf("diagnostics csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestCSVRerunsAreByteIdentical(t *testing.T) {
	b := testbundle(t)

	var first, second bytes.Buffer
	if err := WriteFlatCSV(&first, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := WriteFlatCSV(&second, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("two writes of the same bundle differ")
	}
}

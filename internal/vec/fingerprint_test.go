//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSourceFingerprint(t *testing.T) {
	p := filepath.Join(t.TempDir(), "vectors.txt")
	if err := os.WriteFile(p, []byte("abc"), 0644); err != nil {
		t.Fatalf("could not stage the fixture: %v", err)
	}

	fp, err := SourceFingerprint(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fp != "900150983cd24fb0d6963f7d28e17f72" {
		t.Errorf("fingerprint = %s, want the md5 of 'abc'", fp)
	}
}

func TestSourceFingerprintMissingFile(t *testing.T) {
	if _, err := SourceFingerprint(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("a missing file must not fingerprint")
	}
}

func TestRunFingerprintIsStable(t *testing.T) {
	a := RunFingerprint("deadbeef", "euclidean", 2, 20, []string{"καί", "γάρ"})
	b := RunFingerprint("deadbeef", "euclidean", 2, 20, []string{"καί", "γάρ"})

	if a != b {
		t.Errorf("identical runs fingerprint differently: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("fingerprint %q is not a 32-char md5", a)
	}
}

func TestRunFingerprintIgnoresWordOrder(t *testing.T) {
	a := RunFingerprint("deadbeef", "euclidean", 2, 20, []string{"καί", "γάρ"})
	b := RunFingerprint("deadbeef", "euclidean", 2, 20, []string{"γάρ", "καί"})

	if a != b {
		t.Error("word order leaked into the fingerprint")
	}
}

func TestRunFingerprintSeparatesRuns(t *testing.T) {
	base := RunFingerprint("deadbeef", "euclidean", 2, 20, []string{"καί"})

	cases := map[string]string{
		"source":  RunFingerprint("cafebabe", "euclidean", 2, 20, []string{"καί"}),
		"metric":  RunFingerprint("deadbeef", "cosine", 2, 20, []string{"καί"}),
		"k range": RunFingerprint("deadbeef", "euclidean", 2, 25, []string{"καί"}),
		"words":   RunFingerprint("deadbeef", "euclidean", 2, 20, []string{"γάρ"}),
	}

	for label, fp := range cases {
		if fp == base {
			t.Errorf("changing the %s did not change the fingerprint", label)
		}
	}
}

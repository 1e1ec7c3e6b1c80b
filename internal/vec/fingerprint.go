//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
)

//
// FINGERPRINTS
//

// SourceFingerprint - md5 the raw bytes of the embedding file
func SourceFingerprint(path string) (string, error) {
	const (
		FAIL1 = "cannot open '%s' to fingerprint it: %w"
		FAIL2 = "cannot read '%s' while fingerprinting it: %w"
	)

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf(FAIL1, path, err)
	}

	h := md5.New()
	_, err = io.Copy(h, f)
	_ = f.Close()
	if err != nil {
		return "", fmt.Errorf(FAIL2, path, err)
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// RunFingerprint - md5 the full identity of a clustering run: the source
// fingerprint, the metric, the k range and the word filter in play. Two runs
// with the same fingerprint are guaranteed to emit the same bytes.
func RunFingerprint(srcfp string, metric string, klow int, khigh int, words []string) string {
	const (
		MSG1 = "RunFingerprint() is "
	)

	// unless you sort, you do not get repeatable md5 results from a word list
	ww := slices.Clone(words)
	sort.Strings(ww)

	f1, e1 := json.Marshal(ww)
	Msg.EC(e1)
	f2, e2 := json.Marshal([]string{srcfp, metric, fmt.Sprintf("%d-%d", klow, khigh)})
	Msg.EC(e2)

	f1 = append(f1, f2...)
	m := fmt.Sprintf("%x", md5.Sum(f1))
	Msg.PEEK(MSG1 + m)
	return m
}

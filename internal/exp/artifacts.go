//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package exp

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
)

// WriteArtifacts - verify the bundle and emit the four file artifacts into
// outdir. The verification runs before the first file is opened: a bad bundle
// leaves the output directory untouched.
func WriteArtifacts(b *str.ClusterBundle, outdir string) error {
	const (
		MSG1 = "WriteArtifacts() wrote '%s'"
	)

	if err := VerifyBundle(b); err != nil {
		return err
	}

	artifacts := []struct {
		name  string
		write func(io.Writer, *str.ClusterBundle) error
	}{
		{vv.FLATTABLEFILE, WriteFlatCSV},
		{vv.SUMMARYFILE, WriteSummaryCSV},
		{vv.NESTEDFILE, WriteNestedJSON},
		{vv.DIAGNOSTICFILE, WriteDiagnosticsCSV},
	}

	for _, a := range artifacts {
		p := filepath.Join(outdir, a.name)
		if err := writefile(p, b, a.write); err != nil {
			return err
		}
		Msg.PEEK(fmt.Sprintf(MSG1, p))
	}

	Msg.LogStage(vv.STAGEEXPORT)
	return nil
}

func writefile(path string, b *str.ClusterBundle, write func(io.Writer, *str.ClusterBundle) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f, b); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package exp

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
)

// the fixed numeric formats; reruns must emit byte-identical artifacts

func fit1(v float64) string {
	return strconv.FormatFloat(v, 'f', vv.FITDECIMALS, 64)
}

func sil4(v float64) string {
	return strconv.FormatFloat(v, 'f', vv.SILHOUETTEDECIMALS, 64)
}

// WriteFlatCSV - the per-lemma table: lemma,cluster_id,cluster_size,fit
// ordered by cluster id, then fit descending, then lemma ascending
func WriteFlatCSV(w io.Writer, b *str.ClusterBundle) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"lemma", "cluster_id", "cluster_size", "fit"}); err != nil {
		return err
	}
	for _, a := range b.Assignments {
		row := []string{a.Lemma, strconv.Itoa(a.ClusterID), strconv.Itoa(a.ClusterSize), fit1(a.Fit)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV - the per-cluster table: cluster_id,size,medoid,medoid_index,mean_fit
// in ascending canonical id order
func WriteSummaryCSV(w io.Writer, b *str.ClusterBundle) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"cluster_id", "size", "medoid", "medoid_index", "mean_fit"}); err != nil {
		return err
	}
	for _, s := range b.Summaries {
		row := []string{strconv.Itoa(s.ID), strconv.Itoa(s.Size), s.Medoid, strconv.Itoa(s.MedoidIndex), fit1(s.MeanFit)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDiagnosticsCSV - the selector sweep: k,silhouette and, on euclidean
// runs, the wcss column for the elbow curve
func WriteDiagnosticsCSV(w io.Writer, b *str.ClusterBundle) error {
	cw := csv.NewWriter(w)

	wcss := len(b.Diagnostics) > 0 && b.Diagnostics[0].HasWCSS

	header := []string{"k", "silhouette"}
	if wcss {
		header = append(header, "wcss")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, d := range b.Diagnostics {
		row := []string{strconv.Itoa(d.K), sil4(d.Silhouette)}
		if wcss {
			row = append(row, sil4(d.WCSS))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package exp

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/e-gun/HipparchiaGoClusterer/internal/clu"
	"github.com/e-gun/HipparchiaGoClusterer/internal/lnch"
	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
)

var Msg = lnch.NewMessageMakerWithDefaults()

// BuildBundle - recast a finished pipeline run as the canonical export records.
// Every record carries canonical ids only: 1..K by descending size. The member
// lists and the flat table share one ordering rule, cluster asc, then fit desc,
// then lemma asc, so every artifact tells the same story in the same order.
func BuildBundle(out *clu.PipelineOutcome, runid string, fingerprint string) *str.ClusterBundle {
	k := out.Partition.K
	sizes := out.Partition.Sizes()
	members := out.Partition.Members()

	// canonical id -> raw id
	rawof := make([]int, k+1)
	for raw, canon := range out.Canon {
		rawof[canon] = raw
	}

	b := &str.ClusterBundle{
		RunID:       runid,
		Fingerprint: fingerprint,
		Generated:   time.Now(),
		Metric:      out.DM.Metric,
		N:           out.LM.N(),
		Dim:         out.LM.Dim,
		K:           k,
		KMin:        out.KMin,
		KMax:        out.KMax,
		Silhouette:  out.Selection.ChosenSilhouette(),
		ElbowK:      out.Selection.ElbowK,
		Summaries:   make([]str.ClusterSummary, 0, k),
		Members:     make(map[int][]str.ClusterMember, k),
		Assignments: make([]str.AssignmentRow, 0, out.LM.N()),
		Diagnostics: out.Selection.Series,
		RawToCanon:  out.Canon,
	}

	for canon := 1; canon <= k; canon++ {
		raw := rawof[canon]
		md := out.Medoids[raw]

		b.Summaries = append(b.Summaries, str.ClusterSummary{
			ID:          canon,
			Size:        sizes[raw],
			Medoid:      md.Lemma,
			MedoidIndex: md.Index,
			MeanFit:     out.Fits.ClusterMean[raw],
		})

		memb := make([]str.ClusterMember, 0, sizes[raw])
		for _, row := range members[raw] {
			memb = append(memb, str.ClusterMember{Lemma: out.LM.Lemmata[row], Fit: out.Fits.ByRow[row]})
		}
		slices.SortStableFunc(memb, func(x, y str.ClusterMember) int {
			if x.Fit != y.Fit {
				if x.Fit > y.Fit {
					return -1
				}
				return 1
			}
			return strings.Compare(x.Lemma, y.Lemma)
		})
		b.Members[canon] = memb

		for _, m := range memb {
			b.Assignments = append(b.Assignments, str.AssignmentRow{
				Lemma:       m.Lemma,
				ClusterID:   canon,
				ClusterSize: sizes[raw],
				Fit:         m.Fit,
			})
		}
	}

	return b
}

// VerifyBundle - cross-check the three views of the partition against each
// other before anything touches the disk. A failure means the assembly logic
// broke and the run aborts with no partial artifacts.
func VerifyBundle(b *str.ClusterBundle) error {
	const (
		FAIL1  = "bundle: %d summaries for k=%d: %w"
		FAIL2  = "bundle: summary %d carries id %d: %w"
		FAIL3  = "bundle: cluster %d (size %d) outranks cluster %d (size %d): %w"
		FAIL4  = "bundle: sizes sum to %d but n=%d: %w"
		FAIL5  = "bundle: cluster %d holds %d member(s) but claims %d: %w"
		FAIL6  = "bundle: medoid '%s' is not a member of cluster %d: %w"
		FAIL7  = "bundle: %d assignment(s) for n=%d: %w"
		FAIL8  = "bundle: lemma '%s' is assigned twice: %w"
		FAIL9  = "bundle: assignment for '%s' disagrees with cluster %d: %w"
		FAIL10 = "bundle: diagnostics are not ascending at entry %d: %w"
		FAIL11 = "bundle: raw-to-canonical map is not a bijection onto 1..%d: %w"
		FAIL12 = "bundle: medoid '%s' of cluster %d does not carry the top fit: %w"
	)

	if len(b.Summaries) != b.K {
		return fmt.Errorf(FAIL1, len(b.Summaries), b.K, clu.ErrInconsistentPartition)
	}

	total := 0
	for i, s := range b.Summaries {
		if s.ID != i+1 {
			return fmt.Errorf(FAIL2, i, s.ID, clu.ErrInconsistentPartition)
		}
		if i > 0 && s.Size > b.Summaries[i-1].Size {
			return fmt.Errorf(FAIL3, s.ID, s.Size, b.Summaries[i-1].ID, b.Summaries[i-1].Size, clu.ErrInconsistentPartition)
		}
		total += s.Size
	}
	if total != b.N {
		return fmt.Errorf(FAIL4, total, b.N, clu.ErrInconsistentPartition)
	}

	for _, s := range b.Summaries {
		memb := b.Members[s.ID]
		if len(memb) != s.Size {
			return fmt.Errorf(FAIL5, s.ID, len(memb), s.Size, clu.ErrInconsistentPartition)
		}
		found := false
		for _, m := range memb {
			if m.Lemma == s.Medoid {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf(FAIL6, s.Medoid, s.ID, clu.ErrInconsistentPartition)
		}
		// under euclidean the medoid minimizes the same means the fit ranks,
		// so it must sit at 100.0; under cosine the two notions can diverge
		if b.Metric == vv.METRICEUCLIDEAN && s.Size > 1 {
			for _, m := range memb {
				if m.Lemma == s.Medoid && m.Fit != 100.0 {
					return fmt.Errorf(FAIL12, s.Medoid, s.ID, clu.ErrInconsistentPartition)
				}
			}
		}
	}

	if len(b.Assignments) != b.N {
		return fmt.Errorf(FAIL7, len(b.Assignments), b.N, clu.ErrInconsistentPartition)
	}
	seen := make(map[string]bool, b.N)
	percluster := make(map[int]int, b.K)
	for _, a := range b.Assignments {
		if seen[a.Lemma] {
			return fmt.Errorf(FAIL8, a.Lemma, clu.ErrInconsistentPartition)
		}
		seen[a.Lemma] = true
		percluster[a.ClusterID]++
		if a.ClusterID < 1 || a.ClusterID > b.K || a.ClusterSize != b.Summaries[a.ClusterID-1].Size {
			return fmt.Errorf(FAIL9, a.Lemma, a.ClusterID, clu.ErrInconsistentPartition)
		}
	}
	for _, s := range b.Summaries {
		if percluster[s.ID] != s.Size {
			return fmt.Errorf(FAIL5, s.ID, percluster[s.ID], s.Size, clu.ErrInconsistentPartition)
		}
	}

	for i := 1; i < len(b.Diagnostics); i++ {
		if b.Diagnostics[i].K <= b.Diagnostics[i-1].K {
			return fmt.Errorf(FAIL10, i, clu.ErrInconsistentPartition)
		}
	}

	if len(b.RawToCanon) != b.K {
		return fmt.Errorf(FAIL11, b.K, clu.ErrInconsistentPartition)
	}
	hit := make([]bool, b.K+1)
	for _, c := range b.RawToCanon {
		if c < 1 || c > b.K || hit[c] {
			return fmt.Errorf(FAIL11, b.K, clu.ErrInconsistentPartition)
		}
		hit[c] = true
	}

	return nil
}

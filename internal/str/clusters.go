//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import "time"

//
// THE EXPORTED CLUSTER RECORDS
//

// ClusterMember - one lemma inside a cluster; Fit is the intra-cluster fit percentage at one decimal
type ClusterMember struct {
	Lemma string  `json:"lemma"`
	Fit   float64 `json:"fit"`
}

// ClusterSummary - one row of the per-cluster summary table; IDs are canonical (1..K, size-descending)
type ClusterSummary struct {
	ID          int     `json:"cluster_id"`
	Size        int     `json:"size"`
	Medoid      string  `json:"medoid"`
	MedoidIndex int     `json:"medoid_index"`
	MeanFit     float64 `json:"mean_fit"`
}

// AssignmentRow - one row of the flat per-lemma table
type AssignmentRow struct {
	Lemma       string  `json:"lemma"`
	ClusterID   int     `json:"cluster_id"`
	ClusterSize int     `json:"cluster_size"`
	Fit         float64 `json:"fit"`
}

// KDiagnostic - one (k, mean silhouette width) sample from the selector sweep
type KDiagnostic struct {
	K          int     `json:"k"`
	Silhouette float64 `json:"silhouette"`
	WCSS       float64 `json:"wcss"`
	HasWCSS    bool    `json:"has_wcss"` // false on cosine runs: no centroids there
}

// StoredRun - one row of the postgres bundle cache index; the field order matches the SELECT in BundleDBList()
type StoredRun struct {
	Fingerprint string    `json:"fingerprint"`
	RunID       string    `json:"run_id"`
	Generated   time.Time `json:"generated"`
	Metric      string    `json:"metric"`
	N           int       `json:"n"`
	K           int       `json:"k"`
	Size        int       `json:"bundle_size"`
}

// ClusterBundle - everything a finished run yields; this is what the caches store and the exporters serialize
type ClusterBundle struct {
	RunID       string                  `json:"run_id"`
	Fingerprint string                  `json:"fingerprint"`
	Generated   time.Time               `json:"generated"` // cache metadata only; never written into the artifacts
	Metric      string                  `json:"metric"`
	N           int                     `json:"n"`
	Dim         int                     `json:"dim"`
	K           int                     `json:"k"`
	KMin        int                     `json:"k_min"`
	KMax        int                     `json:"k_max"`
	Silhouette  float64                 `json:"silhouette"` // the mean width at the chosen k
	ElbowK      int                     `json:"elbow_k"`    // informational; never decides k
	Summaries   []ClusterSummary        `json:"summaries"`
	Members     map[int][]ClusterMember `json:"members"`
	Assignments []AssignmentRow         `json:"assignments"`
	Diagnostics []KDiagnostic           `json:"diagnostics"`
	RawToCanon  map[int]int             `json:"raw_to_canon"` // debugging view; raw ids never escape the bundle
}

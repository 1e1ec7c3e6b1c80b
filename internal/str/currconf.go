//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

type CurrentConfiguration struct {
	BlackAndWhite bool
	ClusterExact  int // "-kk": cut at exactly this k and skip the sweep; 0 means sweep
	ClusterKMax   int // 0 means auto: min(vv.DEFAULTKRANGECAP, N-1)
	ClusterKMin   int // 0 means auto: 2
	DbDisabled    bool
	EchoLog       int // 0: "none", 1: "terse", 2: "prolix", 3: "prolix+remoteip"
	EmbFile       string
	Gzip          bool
	HostIP        string
	HostPort      int
	LogLevel      int
	ManualGC      bool // see messenger.LogStage()
	Metric        string
	OutDir        string
	PGLogin       PostgresLogin
	ProfileCPU    bool
	ProfileMEM    bool
	QuietStart    bool
	Recompute     bool // "-rv": ignore a cached bundle with this run's fingerprint
	RestrFile     string
	SelfTest      int
	ServeResults  bool
	TickerActive  bool
	WipeCaches    bool // "-00": drop the postgres cache tables and exit
	WorkerCount   int
}

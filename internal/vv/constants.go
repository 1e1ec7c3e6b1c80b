//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

const (
	MYNAME    = "Hipparchia Golang Clusterer"
	SHORTNAME = "HGC"
	VERSION   = "0.1.2"
	PROJURL   = "https://github.com/e-gun/HipparchiaGoClusterer"

	CONFIGLOCATION = "."
	CONFIGALTAPTH  = "%s/.config/" // %s = os.UserHomeDir()
	CONFIGBASIC    = "hgc-conf.json"
	CONFIGPROLIX   = "hgc-prolix-conf.json"
	CONFIGSTOPLIST = "hgc-stoplist.json"

	DEFAULTPSQLHOST = "127.0.0.1"
	DEFAULTPSQLUSER = "hippa_wr"
	DEFAULTPSQLPORT = 5432
	DEFAULTPSQLDB   = "hipparchiaDB"

	SERVEDFROMHOST           = "127.0.0.1"
	SERVEDFROMPORT           = 8001
	MAXECHOREQPERSECONDPERIP = 60
	TIMEOUTRD                = 15 * time.Second
	TIMEOUTWR                = 120 * time.Second

	DEFAULTGOLOGLEVEL   = 0
	DEFAULTECHOLOGLEVEL = 0
	BLACKANDWHITE       = false
	TICKERISACTIVE      = false
	TICKERDELAY         = 30 * time.Second
	USEGZIP             = false
	WRITEPERMS          = 0644
	JSONINDENT          = "  "

	// the cluster pipeline

	METRICEUCLIDEAN = "euclidean"
	METRICCOSINE    = "cosine"
	DEFAULTMETRIC   = METRICEUCLIDEAN

	MINCLUSTERCOUNT    = 2   // a partition into fewer than 2 clusters is no partition at all
	DEFAULTKRANGECAP   = 200 // unset "-kx" sweeps [2, min(cap, N-1)]
	DEFAULTEMBDIM      = 150 // what HGS emits; an input file can override
	FITDECIMALS        = 1
	SILHOUETTEDECIMALS = 4

	// stage names as counted by the stats hub and shown by the ticker

	STAGEACQUIRE = "acquire embeddings"
	STAGEDIST    = "distance engine"
	STAGEWARD    = "agglomeration"
	STAGESWEEP   = "silhouette sweep"
	STAGESCORE   = "medoids and fits"
	STAGEEXPORT  = "exports"

	// export artifact names inside Config.OutDir

	FLATTABLEFILE  = "hgc-lemma-assignments.csv"
	SUMMARYFILE    = "hgc-cluster-summaries.csv"
	NESTEDFILE     = "hgc-clusters-nested.json"
	DIAGNOSTICFILE = "hgc-k-diagnostics.csv"
	SQLITEFILE     = "hgc-clusters.db"

	// postgres cache tables

	CLUSTERTABLENAME = "clusterbundles"
	EMBTABLENAME     = "embeddingcache"

	SIMULTANEOUSPOOLUSERS = 3 // cap on db connections at (S * Config.WorkerCount)

	CPUPROFILEFILE = "hgc_cpu_profile.bin"
	MEMPROFILEFILE = "hgc_mem_profile.bin"

	MINCONFIG = `
{"PostgreSQLPassword": "YOURPASSWORDHERE"}
`

	PROJYEAR = "2024"
	PROJAUTH = "E. Gunderson"
	PROJMAIL = "Department of Classics, 125 Queen’s Park, Toronto, ON  M5S 2C7 Canada"

	TERMINALTEXT = `Copyright (C) %s / %s
      %s

      This program comes with ABSOLUTELY NO WARRANTY; without even the
      implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.

      This is free software, and you are welcome to redistribute it and/or
      modify it under the terms of the GNU General Public License version 3.`

	HELPTEXTTEMPLATE = `S1command line optionsS0:
   C1-bwC0          disable color in the terminal
   C1-ddC0          disable the postgres caches (file + sqlite output only)
   C1-efC0 C2{f}C0      read the embedding matrix from file C2{f}C0 (word2vec text format)
   C1-elC0 C2{n}C0      set the echo server log level (C20C0-C23C0) [current: C3{{.echoll}}C0]
   C1-glC0 C2{n}C0      set the terminal log level (C20C0-C25C0) [current: C3{{.hgcll}}C0]
   C1-hC0           print this help information
   C1-kkC0 C2{n}C0      cluster into exactly C2{n}C0 clusters (skip the silhouette sweep)
   C1-kmC0 C2{n}C0      lowest cluster count to evaluate [default: C3{{.kmin}}C0]
   C1-kxC0 C2{n}C0      highest cluster count to evaluate [default: C3min({{.kcap}}, N-1)C0]
   C1-mdC0 C2{s}C0      distance metric: C2euclideanC0 or C2cosineC0 [current: C3{{.metric}}C0]
   C1-odC0 C2{d}C0      write the export artifacts into directory C2{d}C0 [current: C3{{.outdir}}C0]
   C1-pcC0          write a cpu profile to the output directory
   C1-pmC0          write a memory profile to the output directory
   C1-pgC0 C2{j}C0      supply postgres credentials as a JSON string
                 C4e.g.C0: C3'{"Pass": "abc", "Host": "127.0.0.1", "Port": 5432, "DBName": "hipparchiaDB", "User": "hippa_wr"}'C0
   C1-qC0           quiet start: suppress the copyright notice
   C1-rfC0 C2{f}C0      retain only the lemmas listed in file C2{f}C0 (one per line)
   C1-rvC0          recompute even if a cached bundle matches this run's fingerprint
   C1-saC0 C2{a}C0      serve the results from address C2{a}C0 [current: C3{{.host}}C0]
   C1-spC0 C2{n}C0      serve the results from port C2{n}C0 [current: C3{{.port}}C0]
   C1-stC0          run the self-test suite and exit
   C1-svC0          serve the exports over http after the run (and stream progress at /ws)
   C1-tkC0          enable the uptime/progress ticker
   C1-vC0           print the version and exit
   C1-vvC0          print full version/build info and exit
   C1-wcC0 C2{n}C0      set the worker count for the per-k sweep [cpu_count is C3{{.cpus}}C0][current: C3{{.workers}}C0]
   C1-00C0          wipe the postgres caches and exit
     (C6configuration files are read from '{{.cwd}}' and '{{.home}}'C0)
     (C6the project's full documentation lives at {{.projurl}}C0)`
)

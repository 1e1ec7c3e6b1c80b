//    HipparchiaGoClusterer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"text/template"

	"github.com/e-gun/HipparchiaGoClusterer/internal/mm"
	"github.com/e-gun/HipparchiaGoClusterer/internal/str"
	"github.com/e-gun/HipparchiaGoClusterer/internal/vv"
)

var (
	Config *str.CurrentConfiguration
	Msg    = mm.NewMessageMaker()
)

// LookForConfigFile - test to see if we can find a config file; if not write one with the defaults in it
func LookForConfigFile() {
	const (
		WROTE = "wrote default configuration to '%s'; edit it to suit, or rely on the command line flags"
		FAIL1 = "cannot find UserHomeDir"
		FAIL2 = "LookForConfigFile() could not write '%s'"
	)

	_, a := os.Stat(vv.CONFIGBASIC)

	var b error
	var c error

	h, e := os.UserHomeDir()
	if e != nil {
		// how likely is this...?
		b = errors.New(FAIL1)
		c = errors.New(FAIL1)
	} else {
		_, b = os.Stat(fmt.Sprintf(vv.CONFIGALTAPTH, h) + vv.CONFIGBASIC)
		_, c = os.Stat(fmt.Sprintf(vv.CONFIGALTAPTH, h) + vv.CONFIGPROLIX)
	}

	notfound := (a != nil) && (b != nil) && (c != nil)

	if notfound {
		dir := fmt.Sprintf(vv.CONFIGALTAPTH, h)
		_ = os.MkdirAll(dir, os.FileMode(0700))

		cfg := BuildDefaultConfig()
		content, err := json.MarshalIndent(cfg, vv.JSONINDENT, vv.JSONINDENT)
		Msg.EC(err)

		pc := dir + vv.CONFIGPROLIX
		err = os.WriteFile(pc, content, vv.WRITEPERMS)
		if err != nil {
			Msg.CRIT(fmt.Sprintf(FAIL2, pc))
			return
		}
		Msg.CRIT(fmt.Sprintf(WROTE, pc))
	}
}

// ConfigAtLaunch - read the configuration values from JSON and/or command line
func ConfigAtLaunch() {
	const (
		FAIL1 = "Could not parse your information as a valid collection of credentials. Use the following template:"
		FAIL2 = `"{\"Pass\": \"YOURPASSWORDHERE\" ,\"Host\": \"127.0.0.1\", \"Port\": 5432, \"DBName\": \"hipparchiaDB\" ,\"User\": \"hippa_wr\"}"`
		FAIL3 = `Could not parse the information in '%s'. Skipping and attempting to use built-in defaults instead.`
		FAIL5 = "Refusing to set a workercount greater than NumCPU: %d > %d ---> setting workercount value to NumCPU: %d"
		FAIL6 = "Could not open '%s'"
		FAIL7 = "ConfigAtLaunch() failed to execute help text template"
		FAIL8 = "Cannot find current working directory"
		FAIL9 = "'%s' is not a known distance metric; using '%s' instead"
	)

	Config = BuildDefaultConfig()

	uh, _ := os.UserHomeDir()
	h := fmt.Sprintf(vv.CONFIGALTAPTH, uh)
	prolixcfg := fmt.Sprintf("%s%s", h, vv.CONFIGPROLIX)

	loadedcfg, e := os.Open(prolixcfg)
	if e != nil {
		Msg.TMI(fmt.Sprintf(FAIL6, prolixcfg))
	}

	decoderc := json.NewDecoder(loadedcfg)
	confc := str.CurrentConfiguration{}
	errc := decoderc.Decode(&confc)
	_ = loadedcfg.Close()

	if errc == nil {
		Config = &confc
	} else if e == nil {
		Msg.CRIT(fmt.Sprintf(FAIL3, prolixcfg))
	}

	var cf string

	args := os.Args[1:len(os.Args)]

	help := func() {
		PrintVersion(*Config)
		PrintBuildInfo(*Config)
		cwd, err := os.Getwd()
		if err != nil {
			Msg.CRIT(FAIL8)
			cwd = "(unknown)"
		}

		m := map[string]interface{}{
			"cwd":     cwd,
			"echoll":  Config.EchoLog,
			"hgcll":   Config.LogLevel,
			"home":    h,
			"host":    Config.HostIP,
			"kmin":    vv.MINCLUSTERCOUNT,
			"kcap":    vv.DEFAULTKRANGECAP,
			"metric":  Config.Metric,
			"outdir":  Config.OutDir,
			"port":    Config.HostPort,
			"projurl": vv.PROJURL,
			"workers": Config.WorkerCount,
			"cpus":    runtime.NumCPU()}

		t := template.Must(template.New("").Parse(vv.HELPTEXTTEMPLATE))

		var b bytes.Buffer
		if ee := t.Execute(&b, m); ee != nil {
			Msg.CRIT(FAIL7)
		}
		fmt.Println(Msg.Styled(Msg.Color(b.String())))

		os.Exit(0)
	}

	for i, a := range args {
		switch a {
		case "-vv":
			PrintVersion(*Config)
			PrintBuildInfo(*Config)
			os.Exit(1)
		case "-v":
			fmt.Println(vv.VERSION + VersSuppl)
			os.Exit(1)
		case "-bw":
			Config.BlackAndWhite = true
		case "-dd":
			Config.DbDisabled = true
		case "-ef":
			Config.EmbFile = args[i+1]
		case "-el":
			ll, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.EchoLog = ll
		case "-gl":
			ll, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.LogLevel = ll
		case "-h":
			help()
		case "-kk":
			kk, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.ClusterExact = kk
		case "-km":
			km, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.ClusterKMin = km
		case "-kx":
			kx, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.ClusterKMax = kx
		case "-md":
			Config.Metric = args[i+1]
		case "-od":
			Config.OutDir = args[i+1]
		case "-pc":
			Config.ProfileCPU = true
		case "-pm":
			Config.ProfileMEM = true
		case "-pg":
			js := args[i+1]
			var pl str.PostgresLogin
			err := json.Unmarshal([]byte(js), &pl)
			if err != nil {
				Msg.MAND(FAIL1)
				Msg.CRIT(FAIL2)
			}
			Config.PGLogin = pl
		case "-q":
			Config.QuietStart = true
		case "-rf":
			Config.RestrFile = args[i+1]
		case "-rv":
			Config.Recompute = true
		case "-sa":
			Config.HostIP = args[i+1]
		case "-sp":
			p, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.HostPort = p
		case "-st":
			Config.SelfTest += 1
		case "-sv":
			Config.ServeResults = true
		case "-tk":
			Config.TickerActive = true
		case "-wc":
			wc, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.WorkerCount = wc
		case "-00":
			Config.WipeCaches = true
		default:
			// do nothing
		}
	}

	y := ""
	if errc != nil {
		y = " *not*"
	}
	Msg.TMI(fmt.Sprintf("'%s%s'%s loaded", h, vv.CONFIGPROLIX, y))

	if Config.Metric != vv.METRICEUCLIDEAN && Config.Metric != vv.METRICCOSINE {
		Msg.CRIT(fmt.Sprintf(FAIL9, Config.Metric, vv.DEFAULTMETRIC))
		Config.Metric = vv.DEFAULTMETRIC
	}

	if Config.LogLevel > mm.MSGTMI {
		Config.LogLevel = mm.MSGTMI
	}

	if Config.LogLevel < mm.MSGMAND {
		Config.LogLevel = mm.MSGMAND
	}

	if !Config.DbDisabled {
		SetConfigPass(&confc, cf)
	}

	if Config.WorkerCount > runtime.NumCPU() {
		Msg.CRIT(fmt.Sprintf(FAIL5, Config.WorkerCount, runtime.NumCPU(), runtime.NumCPU()))
		Config.WorkerCount = runtime.NumCPU()
	}

	UpdateMessageMakerWithConfig(Msg)
}

// BuildDefaultConfig - return a CurrentConfiguration filled out with various default values
func BuildDefaultConfig() *str.CurrentConfiguration {
	var c str.CurrentConfiguration
	c.BlackAndWhite = vv.BLACKANDWHITE
	c.ClusterExact = 0
	c.ClusterKMax = 0
	c.ClusterKMin = 0
	c.DbDisabled = false
	c.EchoLog = vv.DEFAULTECHOLOGLEVEL
	c.EmbFile = ""
	c.Gzip = vv.USEGZIP
	c.HostIP = vv.SERVEDFROMHOST
	c.HostPort = vv.SERVEDFROMPORT
	c.LogLevel = vv.DEFAULTGOLOGLEVEL
	c.ManualGC = false
	c.Metric = vv.DEFAULTMETRIC
	c.OutDir = "."
	c.ProfileCPU = false
	c.ProfileMEM = false
	c.QuietStart = false
	c.Recompute = false
	c.RestrFile = ""
	c.SelfTest = 0
	c.ServeResults = false
	c.TickerActive = vv.TICKERISACTIVE
	c.WipeCaches = false
	c.WorkerCount = runtime.NumCPU()

	pl := str.PostgresLogin{
		Host:   vv.DEFAULTPSQLHOST,
		Port:   vv.DEFAULTPSQLPORT,
		User:   vv.DEFAULTPSQLUSER,
		Pass:   "",
		DBName: vv.DEFAULTPSQLDB,
	}

	c.PGLogin = pl

	return &c
}

// SetConfigPass - make sure that Config.PGLogin.Pass != ""
func SetConfigPass(cfg *str.CurrentConfiguration, cf string) {
	const (
		FAIL3     = "FAILED to load database credentials from any of '%s', '%s' or '%s'"
		FAIL4     = "At a minimum be sure that a '%s' file exists and that it has the following format:"
		FAIL6     = "Could not open '%s'"
		BLANKPASS = "PostgreSQLPassword is blank. Check your '%s' file. NB: 'PostgreSQLPassword ≠ 'PosgreSQLPassword'.\n"
	)
	type ConfigFile struct {
		PostgreSQLPassword string
	}

	uh, _ := os.UserHomeDir()
	h := fmt.Sprintf(vv.CONFIGALTAPTH, uh)

	if cf == "" {
		cf = fmt.Sprintf("%s/%s", vv.CONFIGLOCATION, vv.CONFIGBASIC)
	}

	acf := fmt.Sprintf("%s%s", h, vv.CONFIGBASIC)

	if Config.PGLogin.Pass == "" {
		Config.PGLogin = str.PostgresLogin{}
		cfa, ee := os.Open(cf)
		if ee != nil {
			Msg.TMI(fmt.Sprintf(FAIL6, cf))
		}
		cfb, ee := os.Open(acf)
		if ee != nil {
			Msg.TMI(fmt.Sprintf(FAIL6, acf))
		}

		defer func(cfa *os.File) {
			err := cfa.Close()
			if err != nil {
			} // the file was almost certainly not found in the first place...
		}(cfa)
		defer func(cfb *os.File) {
			err := cfb.Close()
			if err != nil {
			} // the file was almost certainly not found in the first place...
		}(cfb)

		decodera := json.NewDecoder(cfa)
		confa := ConfigFile{}
		erra := decodera.Decode(&confa)

		decoderb := json.NewDecoder(cfb)
		confb := ConfigFile{}
		errb := decoderb.Decode(&confb)
		if erra != nil && errb != nil && cfg.PGLogin.DBName == "" {
			Msg.CRIT(fmt.Sprintf(FAIL3, cf, acf, fmt.Sprintf("%s%s", h, vv.CONFIGPROLIX)))
			Msg.CRIT(fmt.Sprintf(FAIL4, vv.CONFIGBASIC))
			fmt.Printf(vv.MINCONFIG)
			Msg.ExitOrHang(0)
		}

		thecfg := ConfigFile{}
		if erra == nil {
			thecfg = confa
		} else {
			thecfg = confb
		}

		if thecfg.PostgreSQLPassword == "" {
			Msg.MAND(fmt.Sprintf(BLANKPASS, vv.CONFIGBASIC))
		}

		Config.PGLogin = str.PostgresLogin{
			Host:   vv.DEFAULTPSQLHOST,
			Port:   vv.DEFAULTPSQLPORT,
			User:   vv.DEFAULTPSQLUSER,
			DBName: vv.DEFAULTPSQLDB,
			Pass:   thecfg.PostgreSQLPassword,
		}
	}
}

package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagWorkers   = flag.Int("workers", 0, "Slice worker goroutines (0 = config or one per CPU)")
	flagTie       = flag.String("tie", "", "On-plane vertex policy: below or above")
	flagNormalize = flag.Bool("normalize", false, "Center the model and scale it to a unit diagonal")
	flagRemap     = flag.String("remap", "", "STL axis convention: none or yzx")
	flagCells     = flag.Int("cells", 0, "Marching cubes resolution for scripted models")
	flagFormat    = flag.String("format", "", "Output format: text, svg or dxf")
	flagOut       = flag.String("out", "", "Output file (default stdout; required for dxf)")
	flagLogFile   = flag.String("log-file", "", "Also log to this file, with rotation")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// OutputPath returns the -out flag.
func OutputPath() string {
	return *flagOut
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWorkers > 0 {
		cfg.Slice.Workers = *flagWorkers
	}
	if *flagTie != "" {
		cfg.Slice.TieBreak = *flagTie
	}
	if *flagNormalize {
		cfg.Slice.Normalize = true
	}
	if *flagRemap != "" {
		cfg.STL.Remap = *flagRemap
	}
	if *flagCells > 0 {
		cfg.Kernel.MeshCells = *flagCells
	}
	if *flagFormat != "" {
		cfg.Export.Format = *flagFormat
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}

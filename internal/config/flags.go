package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log-file", "", "Also write logs to this file")
	flagFormat    = flag.String("format", "", "Output format: text or yaml")
	flagRows      = flag.Int("rows", -1, "Rows per listing (0 = all)")
	flagMaxFaces  = flag.Int("max-faces", 0, "Reject files with more faces")
	flagMaxPoints = flag.Int("max-points", 0, "Reject files with more points")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagRows >= 0 {
		cfg.Output.Rows = *flagRows
	}
	if *flagMaxFaces > 0 {
		cfg.Decode.MaxFaces = *flagMaxFaces
	}
	if *flagMaxPoints > 0 {
		cfg.Decode.MaxPoints = *flagMaxPoints
	}
}

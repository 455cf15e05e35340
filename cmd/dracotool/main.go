// dracotool is a CLI utility for inspecting Draco-compressed meshes.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/dracodec/internal/config"
	"github.com/Faultbox/dracodec/internal/logger"
	"github.com/Faultbox/dracodec/pkg/draco"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(cfg, args)
	case "faces":
		cmdFaces(cfg, args)
	case "attrs", "attributes":
		cmdAttrs(cfg, args)
	case "dump":
		cmdDump(cfg, args)
	case "config":
		cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`dracotool - Draco mesh inspector

Usage:
  dracotool [flags] <command> [options]

Commands:
  info <file.drc>            Show header and counts
  faces [-n N] <file.drc>    List decoded faces
  attrs <file.drc>           Describe decoded attributes
  dump [-n N] <file.drc>     Print faces and attribute values
  config [-save]             Print (or save) the effective config

Flags:
  -config <path>     Config file (default: ./dracotool.yaml)
  -format text|yaml  Output format
  -rows N            Rows per listing (0 = all)
  -max-faces N       Reject files with more faces
  -max-points N      Reject files with more points
  -debug             Enable debug logging
  -log-file <path>   Also write logs to a rotating file

Examples:
  dracotool info bunny.drc
  dracotool -format yaml dump -n 5 bunny.drc
  dracotool -max-faces 100000 faces bunny.drc`)
}

// decodeArg decodes the mesh named by the first positional argument, or exits.
func decodeArg(cfg *config.Config, fs *flag.FlagSet, usage string) *draco.Mesh {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: dracotool "+usage)
		os.Exit(1)
	}

	path := fs.Arg(0)
	mesh, err := draco.DecodeFile(path,
		draco.WithLogger(logger.Log),
		draco.WithLimits(cfg.Decode.Limits()),
	)
	if err != nil {
		logger.Log.Error("decode failed", zap.String("file", path), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Log.Info("decoded",
		zap.String("file", path),
		zap.Int("faces", mesh.NumFaces()),
		zap.Int("points", mesh.NumPoints))
	return mesh
}

func rowsFlag(fs *flag.FlagSet, cfg *config.Config) *int {
	return fs.Int("n", cfg.Output.Rows, "Limit listings to N rows (0 = all)")
}

func cmdInfo(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	mesh := decodeArg(cfg, fs, "info <file.drc>")
	r := buildReport(mesh, reportOptions{})
	exitOnErr(render(os.Stdout, cfg.Output.Format, r))
}

func cmdFaces(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("faces", flag.ExitOnError)
	rows := rowsFlag(fs, cfg)
	fs.Parse(args)

	mesh := decodeArg(cfg, fs, "faces [-n N] <file.drc>")
	r := buildReport(mesh, reportOptions{Faces: true, Rows: *rows})
	exitOnErr(render(os.Stdout, cfg.Output.Format, r))
}

func cmdAttrs(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("attrs", flag.ExitOnError)
	fs.Parse(args)

	mesh := decodeArg(cfg, fs, "attrs <file.drc>")
	r := buildReport(mesh, reportOptions{Attributes: true})
	exitOnErr(render(os.Stdout, cfg.Output.Format, r))
}

func cmdDump(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	rows := rowsFlag(fs, cfg)
	fs.Parse(args)

	mesh := decodeArg(cfg, fs, "dump [-n N] <file.drc>")
	r := buildReport(mesh, reportOptions{Attributes: true, Faces: true, Values: true, Rows: *rows})
	exitOnErr(render(os.Stdout, cfg.Output.Format, r))
}

func cmdConfig(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Write the effective config to the user config directory")
	fs.Parse(args)

	if *save {
		path, err := cfg.Save()
		exitOnErr(err)
		fmt.Printf("Saved config to %s\n", path)
		return
	}

	data, err := cfg.Marshal()
	exitOnErr(err)
	os.Stdout.Write(data)
}

func exitOnErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Command tgam-collector decodes a NeuroSky ThinkGear (TGAM1) serial stream
// into a delimited row log (record) and converts a recorded row log into a
// standards-compliant EDF biosignal file (convert).
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "record":
		cfg, showVersion, err := parseRecordFlags(os.Args[2:])
		if showVersion {
			printVersion()
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "record: %v\n", err)
			os.Exit(2)
		}
		l := setupLogger(cfg.LogFormat, cfg.LogLevel)
		if err := runRecord(cfg, l); err != nil {
			l.Error("record_failed", "error", err)
			os.Exit(1)
		}
	case "convert":
		cfg, showVersion, err := parseConvertFlags(os.Args[2:])
		if showVersion {
			printVersion()
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "convert: %v\n", err)
			os.Exit(2)
		}
		l := setupLogger(cfg.LogFormat, cfg.LogLevel)
		if err := runConvert(cfg, l); err != nil {
			l.Error("convert_failed", "error", err)
			os.Exit(1)
		}
	case "-version", "--version", "version":
		printVersion()
	default:
		usage()
		os.Exit(2)
	}
}

func printVersion() {
	fmt.Printf("tgam-collector %s (commit %s, built %s)\n", version, commit, date)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tgam-collector <record|convert> [flags]")
}

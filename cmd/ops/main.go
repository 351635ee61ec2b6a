// Command ops is the operator toolbox: data-dir backup/restore and offline
// save-payload inspection.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/ops"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/save"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "backup":
		err = cmdBackup(os.Args[2:])
	case "restore":
		err = cmdRestore(os.Args[2:])
	case "inspect":
		err = cmdInspect(os.Args[2:])
	case "diff":
		err = cmdDiff(os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("-out is required")
	}
	n, err := ops.BackupDataDir(*dataDir, *out)
	if err != nil {
		return err
	}
	fmt.Printf("backup written to %s (%d files)\n", *out, n)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "archive path (.tar.gz)")
	target := fs.String("target", "data", "target data directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("-archive is required")
	}
	n, err := ops.RestoreDataDir(*archive, *target)
	if err != nil {
		return err
	}
	fmt.Printf("restored %d files into %s\n", n, *target)
	return nil
}

// cmdInspect parses a save payload and prints a short summary, proving the
// payload would import cleanly.
func cmdInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	path := fs.String("save", "", "path to an exported save payload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("-save is required")
	}
	b, err := os.ReadFile(*path)
	if err != nil {
		return err
	}
	g, extra, err := save.Import(string(b))
	if err != nil {
		return err
	}
	fmt.Printf("id:        %s\n", g.ID)
	fmt.Printf("creds:     %.2f\n", g.Creds)
	fmt.Printf("awards:    %d\n", g.Awards)
	fmt.Printf("prestige:  %d\n", g.Prestige)
	fmt.Printf("notoriety: %.2f\n", g.Notoriety)
	fmt.Printf("clicks:    %d\n", g.Stats.TotalClicks)
	if len(extra) > 0 {
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		fmt.Println("unknown keys preserved:", keys)
	}
	return nil
}

// cmdDiff compares a payload's top-level keys against the factory shape.
func cmdDiff(args []string) error {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	path := fs.String("save", "", "path to an exported save payload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("-save is required")
	}
	b, err := os.ReadFile(*path)
	if err != nil {
		return err
	}
	report, err := save.Diff(string(b))
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: ops <command> [flags]

commands:
  backup   -data-dir DIR -out FILE.tar.gz
  restore  -archive FILE.tar.gz -target DIR
  inspect  -save FILE.json
  diff     -save FILE.json`)
}

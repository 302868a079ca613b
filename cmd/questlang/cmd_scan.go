package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fiorevita/questlang/quest/scanner"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Scan a directory, quest file, or zip quest pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return runScan(path, timeout)
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "timeout per file")

	return cmd
}

func runScan(path string, timeout time.Duration) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	req := scanner.Request{Timeout: timeout}
	if info.IsDir() {
		req.Path = path
	} else {
		switch ext := filepath.Ext(path); ext {
		case ".zip":
			req.ZipFile = path
		case ".quest":
			req.QuestFiles = []string{path}
		default:
			return fmt.Errorf("unsupported file type: %s", ext)
		}
	}

	s := scanner.New()
	id := s.Submit(req)
	fmt.Printf("Scanning %s (scan %s)\n", path, id)

	result, ok := s.Wait(id)
	if !ok {
		return fmt.Errorf("scan %s disappeared", id)
	}

	for _, entry := range result.Quests {
		fmt.Printf("[OK] %s (%s)\n", entry.Quest.Name, entry.Path)
	}

	fmt.Printf("\n=== SCAN COMPLETE ===\n")
	fmt.Printf("Quests found: %d\n", len(result.Quests))
	fmt.Printf("Errors: %d\n", len(result.Errors))
	for _, e := range result.Errors {
		fmt.Printf("  - %s\n", e)
	}

	if result.Status == scanner.StatusFailed {
		return fmt.Errorf("scan failed: %s", result.Error)
	}
	return nil
}

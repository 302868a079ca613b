package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fiorevita/questlang/project"
	"github.com/fiorevita/questlang/quest/parser"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Parse every quest file and report syntax errors",
		Long: `Parse every quest file under the given path and report syntax errors.

When the path is inside a campaign (a directory with a quest.toml
manifest), the whole campaign is checked chapter by chapter. Otherwise
the directory tree is walked for .quest files.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			files, err := collectQuestFiles(path)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no .quest files found under %s", path)
			}

			bad := 0
			for _, file := range files {
				data, err := os.ReadFile(file)
				if err != nil {
					fmt.Printf("%s: %v\n", file, err)
					bad++
					continue
				}
				if _, err := parser.Parse(string(data), parser.WithFile(file)); err != nil {
					if pos, ok := parser.PositionOf(err); ok {
						fmt.Printf("%s: %v\n", pos, err)
					} else {
						fmt.Printf("%s: %v\n", file, err)
					}
					bad++
				}
			}

			fmt.Printf("Checked %d files, %d with errors\n", len(files), bad)
			if bad > 0 {
				return fmt.Errorf("%d of %d files have syntax errors", bad, len(files))
			}
			return nil
		},
	}

	return cmd
}

// collectQuestFiles resolves the files to check: a single .quest file,
// a campaign when a quest.toml manifest is in reach, or a plain
// directory walk.
func collectQuestFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		if filepath.Ext(path) != ".quest" {
			return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
		}
		return []string{path}, nil
	}

	if proj, err := project.Find(path); err == nil {
		fmt.Printf("Campaign: %s\n", proj.Campaign.Name)
		return proj.QuestFiles()
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(p, ".quest") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	return files, nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fiorevita/questlang/format"
	"github.com/fiorevita/questlang/quest/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .quest file and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			if ext := filepath.Ext(filename); ext != ".quest" {
				return fmt.Errorf("unsupported file extension: %s (expected .quest)", ext)
			}

			fmt.Printf("Reading file: %s\n", filename)
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			fmt.Println("Parsing content...")
			q, err := parser.Parse(string(data), parser.WithFile(filename))
			if err != nil {
				if pos, ok := parser.PositionOf(err); ok {
					return fmt.Errorf("parse quest: %s: %w", pos, err)
				}
				return fmt.Errorf("parse quest: %w", err)
			}

			fmt.Println("✅ Successfully parsed!")

			encoder, err := format.NewEncoder(os.Stdout, outputFormat)
			if err != nil {
				return err
			}
			if err := encoder.Encode(q); err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")

	return cmd
}

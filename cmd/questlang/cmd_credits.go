package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreditsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "credits",
		Short: "Show who made this",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Game Quest Parser v%s\n", version)
			fmt.Println("Created by: f1ore vita")
			fmt.Println("Theme: Custom Language for RPG Quests")
		},
	}
}

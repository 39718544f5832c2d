/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/douzebis/riegeli/pkg/records"
)

// describeCmd prints file-level statistics
var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Show chunk and record statistics of a record file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := records.BuildIndex(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("File:    %s\n", args[0])
		if stat, err := os.Stat(args[0]); err == nil {
			fmt.Printf("Size:    %d bytes\n", stat.Size())
		}
		fmt.Printf("Chunks:  %d\n", index.NumChunks())
		fmt.Printf("Records: %d\n", index.NumRecords())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

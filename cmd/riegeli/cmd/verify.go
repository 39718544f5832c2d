/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/douzebis/riegeli/pkg/records"
)

// verifyCmd reads the whole file, validating every chunk hash
var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Validate the integrity of a record file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := records.Open(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		count := 0
		bytes := 0
		for {
			rec, ok := reader.Next()
			if !ok {
				break
			}
			count++
			bytes += len(rec)
		}
		if err := reader.Err(); err != nil {
			return fmt.Errorf("corruption after %d records: %w", count, err)
		}
		fmt.Printf("OK: %d records, %d payload bytes\n", count, bytes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

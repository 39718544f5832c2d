/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"github.com/douzebis/riegeli/pkg/records"
)

// catCmd streams records to stdout, one per line
var catCmd = &cobra.Command{
	Use:   "cat <file>",
	Short: "Print the records of a record file to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := records.Open(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		out := bufio.NewWriter(os.Stdout)
		defer out.Flush()

		it := reader.Iterator()
		for it.Next() {
			if _, err := out.Write(it.Record()); err != nil {
				return err
			}
			if err := out.WriteByte('\n'); err != nil {
				return err
			}
		}
		return reader.Err()
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/douzebis/riegeli/pkg/codec"
	"github.com/douzebis/riegeli/pkg/records"
)

// createCmd writes a record file from newline-delimited stdin
var createCmd = &cobra.Command{
	Use:   "create <file>",
	Short: "Create a record file from newline-delimited records on stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromCmd(cmd)

		codecName, _ := cmd.Flags().GetString("codec")
		if codecName == "" {
			codecName = cfg.Records.Codec
		}
		cc, err := codec.ParseCodec(codecName)
		if err != nil {
			return err
		}

		chunkSize, _ := cmd.Flags().GetInt("chunk-size")
		if chunkSize == 0 {
			chunkSize = cfg.Records.ChunkSize
		}

		writer, err := records.Create(args[0], records.WriterConfig{
			ChunkSize:  chunkSize,
			Codec:      cc,
			BufferSize: cfg.Records.BufferSize,
		})
		if err != nil {
			return err
		}

		count := 0
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 1<<20), 1<<26)
		for scanner.Scan() {
			if err := writer.WriteRecord(scanner.Bytes()); err != nil {
				writer.Close()
				return err
			}
			count++
		}
		if err := scanner.Err(); err != nil {
			writer.Close()
			return fmt.Errorf("failed to read input: %w", err)
		}

		if err := writer.Close(); err != nil {
			return err
		}
		fmt.Printf("Wrote %d records to %s (%s)\n", count, args[0], cc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().String("codec", "", "Compression codec (none, snappy, zstd, gzip)")
	createCmd.Flags().Int("chunk-size", 0, "Target uncompressed chunk payload size")
}

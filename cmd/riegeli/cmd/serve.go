/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/douzebis/riegeli/pkg/api"
)

// serveCmd serves a record file over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve the records of a record file over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromCmd(cmd)

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Server.Port
		}
		bind, _ := cmd.Flags().GetString("bind")
		if bind == "" {
			bind = cfg.Server.Bind
		}

		return api.StartServer(args[0], api.ServerConfig{Port: port, Bind: bind})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Port to listen on")
	serveCmd.Flags().String("bind", "", "Address to bind to")
}

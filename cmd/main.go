package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "sampling-service",
		Short: "Experience sampling API: samples, videos, export and dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "path to the YAML config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	})

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the samples export document to a file or stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			limit, _ := cmd.Flags().GetInt64("limit")
			out, _ := cmd.Flags().GetString("out")
			return runExport(cmd.Context(), format, limit, out)
		},
	}
	exportCmd.Flags().StringP("format", "f", "json", "json or yaml")
	exportCmd.Flags().Int64P("limit", "l", 0, "maximum samples (0 uses app.default_limit)")
	exportCmd.Flags().StringP("out", "o", "", "output file (stdout when empty)")
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"github.com/goliatone/go-print"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-cookie-auth/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), print.MaybePrettyJSON(buildinfo.GetBuildInfo()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

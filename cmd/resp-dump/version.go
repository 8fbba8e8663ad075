package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	redirs "github.com/FrancescoLuzzi/redirs"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), redirs.Version)
				return
			}
			out := cmd.OutOrStdout()
			for k, v := range redirs.VersionInfo() {
				fmt.Fprintf(out, "%s: %s\n", k, v)
			}
			fmt.Fprintf(out, "go: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")

	return cmd
}

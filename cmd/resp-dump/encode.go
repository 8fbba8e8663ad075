package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FrancescoLuzzi/redirs/resp"
)

func encodeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "encode <command> [args...]",
		Short: "Encode a command line as RESP wire bytes",
		Long: `Encode renders a command and its arguments as the RESP array of bulk
strings a client would send, e.g.:

  resp-dump encode SET greeting hello`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			w := resp.NewWriter(&buf)
			if err := w.WriteCommand(args[0], args[1:]...); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
			logger.Debug("encoded command",
				zap.String("command", args[0]),
				zap.Int("bytes", buf.Len()))

			if outPath != "" {
				return afero.WriteFile(afero.NewOsFs(), outPath, buf.Bytes(), 0o644)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), buf.String())
			return err
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write wire bytes to a file instead of stdout")

	return cmd
}

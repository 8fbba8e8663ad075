// resp-dump is an inspection tool for RESP byte streams: it decodes
// captured protocol bytes into readable values, encodes commands back
// to wire bytes, and verifies that streams round-trip exactly.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "resp-dump",
		Short: "Inspect and produce RESP protocol byte streams",
		Long: `resp-dump works on raw RESP (Redis Serialization Protocol) bytes.

It reads protocol captures from files or stdin and prints the decoded
values, encodes command lines back into wire bytes, and checks that a
stream survives a decode/encode round trip byte for byte. It never
opens a network connection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		decodeCmd(),
		encodeCmd(),
		verifyCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

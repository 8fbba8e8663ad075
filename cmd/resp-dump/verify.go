package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FrancescoLuzzi/redirs/resp"
)

func verifyCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Check that a RESP stream round-trips byte for byte",
		Long: `Verify decodes every value in the stream, re-encodes it, and compares
the result against the bytes the value was decoded from. Any mismatch
is reported with its offset.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadLimits(configPath)
			if err != nil {
				return err
			}

			data, err := readInput(afero.NewOsFs(), args)
			if err != nil {
				return err
			}

			dec := resp.NewDecoder(data, opts...)
			out := cmd.OutOrStdout()
			values, mismatches := 0, 0
			for dec.Buffered() > 0 {
				start := dec.Pos()
				v, err := dec.Decode()
				if errors.Is(err, resp.ErrIncomplete) {
					fmt.Fprintf(out, "truncated value at offset %d\n", start)
					break
				}
				if err != nil {
					return fmt.Errorf("offset %d: %w", start, err)
				}

				values++
				original := data[start:dec.Pos()]
				reencoded := resp.Marshal(v)
				if !bytes.Equal(original, reencoded) {
					mismatches++
					fmt.Fprintf(out, "mismatch at offset %d: decoded %q, re-encoded %q\n",
						start, original, reencoded)
					logger.Debug("round-trip mismatch",
						zap.Int("offset", start),
						zap.Int("originalLen", len(original)),
						zap.Int("reencodedLen", len(reencoded)))
				}
			}

			fmt.Fprintf(out, "%d values, %d mismatches\n", values, mismatches)
			if mismatches > 0 {
				return fmt.Errorf("%d of %d values did not round-trip", mismatches, values)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a limits.toml with decoder limits")

	return cmd
}

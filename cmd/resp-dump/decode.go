package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FrancescoLuzzi/redirs/resp"
)

func decodeCmd() *cobra.Command {
	var (
		configPath   string
		showCommands bool
	)

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a RESP byte stream and print its values",
		Long: `Decode parses a RESP byte stream from a file (or stdin when no file
is given) and prints one line per value. With --commands, arrays are
additionally translated to client commands where possible.

A truncated trailing value is reported separately from malformed input:
truncation means the capture simply ended early, malformed bytes mean
the stream violates the protocol.`,
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
			logger.Debug("read input", zap.Int("bytes", len(data)))

			dec := resp.NewDecoder(data, opts...)
			out := cmd.OutOrStdout()
			for i := 0; dec.Buffered() > 0; i++ {
				start := dec.Pos()
				v, err := dec.Decode()
				if errors.Is(err, resp.ErrIncomplete) {
					fmt.Fprintf(out, "%4d) truncated value at offset %d (%d bytes remaining)\n",
						i+1, start, dec.Buffered())
					return nil
				}
				if err != nil {
					return fmt.Errorf("offset %d: %w", start, err)
				}

				fmt.Fprintf(out, "%4d) %s\n", i+1, describeValue(v))
				if showCommands && v.Type == resp.TypeArray {
					if c, err := resp.ParseCommand(v); err == nil {
						fmt.Fprintf(out, "      command: %s\n", c.CommandName())
					} else {
						logger.Debug("not a command", zap.Error(err))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a limits.toml with decoder limits")
	cmd.Flags().BoolVar(&showCommands, "commands", false, "Translate arrays to client commands")

	return cmd
}

// readInput loads the whole stream from the named file or stdin.
func readInput(fs afero.Fs, args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(os.Stdin)
	}
	return afero.ReadFile(fs, args[0])
}

// describeValue renders a value with its type name, the way redis-cli
// annotates replies.
func describeValue(v resp.Value) string {
	return fmt.Sprintf("(%s) %s", typeName(v.Type), v.String())
}

func typeName(t resp.ValueType) string {
	switch t {
	case resp.TypeSimpleString:
		return "simple"
	case resp.TypeSimpleError:
		return "error"
	case resp.TypeInteger:
		return "integer"
	case resp.TypeBulkString:
		return "bulk"
	case resp.TypeArray:
		return "array"
	case resp.TypeNull:
		return "null"
	case resp.TypeBool:
		return "bool"
	case resp.TypeDouble:
		return "double"
	case resp.TypeBigNumber:
		return "bignum"
	case resp.TypeBulkError:
		return "bulk-error"
	case resp.TypeVerbatimString:
		return "verbatim"
	case resp.TypeMap:
		return "map"
	case resp.TypeSet:
		return "set"
	case resp.TypePush:
		return "push"
	default:
		return "unknown"
	}
}

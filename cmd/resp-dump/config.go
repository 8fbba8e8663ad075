package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/FrancescoLuzzi/redirs/resp"
)

// limits.toml key mapping to decoder hardening limits.
type limitsFile struct {
	MaxDepth        int   `toml:"max_depth"`
	MaxBulkLen      int64 `toml:"max_bulk_len"`
	MaxAggregateLen int64 `toml:"max_aggregate_len"`
}

// loadLimits reads decoder limits from a TOML file and returns the
// decoder options for the keys the file actually defines. An empty path
// means defaults.
func loadLimits(path string) ([]resp.DecoderOption, error) {
	if path == "" {
		return nil, nil
	}

	var raw limitsFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load limits config: %w", err)
	}

	var opts []resp.DecoderOption
	if meta.IsDefined("max_depth") {
		if raw.MaxDepth <= 0 {
			return nil, fmt.Errorf("load limits config: max_depth must be positive, got %d", raw.MaxDepth)
		}
		opts = append(opts, resp.WithMaxDepth(raw.MaxDepth))
	}
	if meta.IsDefined("max_bulk_len") {
		if raw.MaxBulkLen <= 0 {
			return nil, fmt.Errorf("load limits config: max_bulk_len must be positive, got %d", raw.MaxBulkLen)
		}
		opts = append(opts, resp.WithMaxBulkLen(raw.MaxBulkLen))
	}
	if meta.IsDefined("max_aggregate_len") {
		if raw.MaxAggregateLen <= 0 {
			return nil, fmt.Errorf("load limits config: max_aggregate_len must be positive, got %d", raw.MaxAggregateLen)
		}
		opts = append(opts, resp.WithMaxAggregateLen(raw.MaxAggregateLen))
	}
	return opts, nil
}

package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rs/zerolog/log"

	"anonymizer/internal/config"
	"anonymizer/internal/probe"
)

// probeOutput is what -probe prints.
type probeOutput struct {
	Report   probe.Report    `json:"report"`
	Pipeline config.Pipeline `json:"suggested_pipeline"`
}

// probeInput loads the export, reports how it matches p and prints a
// pipeline adjusted to the columns found. Nothing is written to disk.
func probeInput(ctx context.Context, p config.Pipeline, stdout io.Writer) error {
	tbl, err := load(ctx, p)
	if err != nil {
		return err
	}

	rep := probe.Probe(tbl, p, probe.Options{})
	for _, c := range rep.Columns {
		log.Debug().
			Str("column", c.Name).
			Str("kind", c.Kind).
			Int("missing", c.Missing).
			Int("distinct", c.Distinct).
			Msg("probe: column")
	}
	for _, c := range rep.MissingColumns {
		log.Warn().Str("column", c).Msg("probe: referenced column not in export")
	}
	log.Info().
		Int("rows", rep.Rows).
		Int("columns", len(rep.Columns)).
		Strs("unlisted_timestamps", rep.UnlistedTimestamps).
		Msg("probe: done")

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(probeOutput{Report: rep, Pipeline: probe.Suggest(p, rep)})
}

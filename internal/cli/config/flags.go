package config

import (
	"github.com/leapstack-labs/csvcollect/internal/collector"
	"github.com/spf13/pflag"
)

// RegisterFlags adds the global configuration flags to fs. Flag names map to
// config keys by replacing '-' with '_'.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("source-dir", "", "Root directory containing one folder per company")
	fs.String("target-dir", "", "Flat output directory for <company>.csv files")
	fs.String("mode", DefaultMode, "move removes all.csv from the company folder, copy keeps it (move|copy)")
	fs.String("on-conflict", DefaultConflict, "What to do when <company>.csv already exists (overwrite|skip|fail)")
	fs.Bool("create-target", false, "Create the target directory if it does not exist")
	fs.String("manifest", "", "Write a company list with this file name into the target directory (e.g. "+collector.DefaultManifestName+")")
	fs.String("state", "", "Path to the run journal database (default: "+DefaultStateFile+")")
	fs.Bool("no-state", false, "Do not journal runs")
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.StringP("output", "o", "", "Output format (auto|text|markdown|json)")
}

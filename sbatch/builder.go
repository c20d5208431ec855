package sbatch

import (
	"context"

	"github.com/drseq/slurmgen/manifest"
)

// Mode selects how work items are discovered under the input folder.
type Mode int

const (
	// Samples derives deduplicated identifiers from files matching
	// Config.Pattern.
	Samples Mode = iota
	// Dirs takes every immediate subdirectory as one work item.
	Dirs
	// Runs takes every (group directory, run subdirectory) pair,
	// group-major.
	Runs
)

// Config parameterizes one script generation: where to look, how to
// turn directory entries into work items, the command template
// substituted per item, and the directive header of the emitted
// script.
type Config struct {
	InputDir string
	Mode     Mode

	// Pattern and Derive apply in Samples mode only.
	Pattern string
	Derive  func(string) string

	Template manifest.CommandTemplate
	Header   Header

	// OutputPath is the script location; there is no implicit
	// working-directory default.
	OutputPath string
}

// Build discovers work items per cfg, renders one task line each, and
// writes (or appends to) the script at cfg.OutputPath. It returns the
// number of tasks written. Discovery failures and zero discovered
// items surface as errors before any byte is written.
func Build(ctx context.Context, cfg Config) (int, error) {
	var (
		tasks []manifest.Task
		err   error
	)
	switch cfg.Mode {
	case Samples:
		tasks, err = manifest.DiscoverSamples(cfg.InputDir, cfg.Pattern, cfg.Derive)
	case Dirs:
		tasks, err = manifest.DiscoverDirs(cfg.InputDir)
	case Runs:
		tasks, err = manifest.DiscoverRuns(cfg.InputDir)
	}
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	lines := manifest.Render(tasks, cfg.Template)
	if err := Write(cfg.OutputPath, cfg.Header, lines); err != nil {
		return 0, err
	}
	return len(lines), nil
}

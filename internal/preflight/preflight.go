package preflight

import (
	"context"

	"plaza/internal/config"
	"plaza/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the given config. Backend
// reachability is only checked when a base URL is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	results = append(results, CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir))
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	results = append(results, CheckDiskSpace(cfg.Paths.ScratchDir))

	for _, status := range CheckSystemDeps(cfg) {
		passed := status.Available || status.Optional
		results = append(results, Result{Name: status.Name, Passed: passed, Detail: status.Detail})
	}

	if cfg.Backend.BaseURL != "" {
		results = append(results, CheckBackend(ctx, cfg.Backend.BaseURL))
	}

	return results
}

// CheckSystemDeps evaluates the external binaries the pipelines need.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for video compression",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media inspection",
		},
		{
			Name:        "HEIF converter",
			Command:     cfg.HeifBinary(),
			Description: "Required for HEIC photo conversion",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}

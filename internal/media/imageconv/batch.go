package imageconv

import (
	"context"
	"path/filepath"

	"plaza/internal/logging"
	"plaza/internal/media"
)

// BatchStatus is the per-file state reported during batch conversion.
type BatchStatus string

const (
	StatusProcessing BatchStatus = "processing"
	StatusCompleted  BatchStatus = "completed"
	StatusError      BatchStatus = "error"
)

// BatchProgressFunc receives batch progress: the current file index, the
// total count, the file name, and its status.
type BatchProgressFunc func(index, total int, filename string, status BatchStatus)

// BatchOptions adjusts a batch conversion.
type BatchOptions struct {
	MaxWidth   int
	OnProgress BatchProgressFunc
}

// ConvertBatch processes files strictly sequentially in input order. A file
// whose conversion fails is passed through unmodified unless it is an
// HEIC/HEIF capture, which is dropped since it cannot be displayed natively.
// The batch never aborts early on a per-file error; only context cancellation
// stops it, checked between files.
func (c *Converter) ConvertBatch(ctx context.Context, paths []string, opts BatchOptions) ([]Result, error) {
	report := func(index int, filename string, status BatchStatus) {
		if opts.OnProgress != nil {
			opts.OnProgress(index, len(paths), filename, status)
		}
	}

	results := make([]Result, 0, len(paths))
	for index, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		name := filepath.Base(path)
		report(index, name, StatusProcessing)

		result, err := c.Convert(ctx, path, Options{MaxWidth: opts.MaxWidth})
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			report(index, name, StatusError)
			if media.IsHEIC(path) {
				c.logger.Warn("dropping HEIC file after failed conversion",
					logging.String(logging.FieldFile, name), logging.Error(err))
				continue
			}
			c.logger.Warn("passing original through after failed conversion",
				logging.String(logging.FieldFile, name), logging.Error(err))
			results = append(results, Result{Path: path, SourcePath: path, Passthrough: true})
			continue
		}

		report(index, name, StatusCompleted)
		results = append(results, result)
	}
	return results, nil
}

// Package upload runs the media upload workflow: each selected file is
// classified, converted into an upload-friendly format, and pushed to
// backend storage, strictly one file at a time. Every file moves through an
// explicit state machine surfaced to the caller, so a UI can show exactly
// where a slow upload is.
package upload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"plaza/internal/backend"
	"plaza/internal/logging"
	"plaza/internal/media"
	"plaza/internal/media/imageconv"
	"plaza/internal/media/videoconv"
	"plaza/internal/notifications"
	"plaza/internal/services"
)

// State is one step of a file's journey through the pipeline.
type State string

const (
	StateIdle       State = "idle"
	StateDecoding   State = "decoding"
	StateResampling State = "resampling"
	StateEncoding   State = "encoding"
	StateUploading  State = "uploading"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Progress reports one file's position in the batch and its current state.
type Progress struct {
	Index    int
	Total    int
	Filename string
	State    State
	// Percent covers the current state only; encoding a long video reports
	// 0 to 100 within StateEncoding.
	Percent float64
}

// ProgressFunc receives pipeline progress events.
type ProgressFunc func(Progress)

// ImageConverter is the image pipeline surface the workflow needs.
type ImageConverter interface {
	Convert(ctx context.Context, path string, opts imageconv.Options) (imageconv.Result, error)
}

// VideoCompressor is the video pipeline surface the workflow needs.
type VideoCompressor interface {
	Compress(ctx context.Context, path string, opts videoconv.Options) (videoconv.Result, error)
}

// Uploader pushes a finished file to backend storage.
type Uploader interface {
	UploadFile(ctx context.Context, path string) (backend.UploadResult, error)
}

// FileResult is the outcome for one file of the batch.
type FileResult struct {
	SourcePath string
	Attachment backend.Attachment
	State      State
	Err        error
}

// Pipeline wires the converters, the uploader, and the notifier together.
type Pipeline struct {
	images   ImageConverter
	videos   VideoCompressor
	uploader Uploader
	notifier notifications.Service
	logger   *slog.Logger
}

// New builds a Pipeline. The notifier may be the noop service.
func New(images ImageConverter, videos VideoCompressor, uploader Uploader, notifier notifications.Service, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		images:   images,
		videos:   videos,
		uploader: uploader,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "upload"),
	}
}

// Options adjusts one batch run.
type Options struct {
	OnProgress ProgressFunc
}

// Run processes the batch in order. A failed conversion drops HEIC files and
// passes other images through unconverted; any other failure marks the file
// failed and the batch moves on. Only context cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	report := func(index int, name string, state State, percent float64) {
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				Index:    index,
				Total:    len(paths),
				Filename: name,
				State:    state,
				Percent:  percent,
			})
		}
	}

	results := make([]FileResult, 0, len(paths))
	uploaded, failed := 0, 0
	for index, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		name := filepath.Base(path)
		report(index, name, StateIdle, 0)

		result := p.processFile(ctx, index, path, report)
		if result.Err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			failed++
			p.logger.Warn("file failed",
				logging.String(logging.FieldFile, name),
				logging.Error(result.Err))
			if notifyErr := p.notifier.NotifyError(ctx, result.Err, name); notifyErr != nil {
				p.logger.Warn("error notification failed", logging.Error(notifyErr))
			}
		} else {
			uploaded++
		}
		results = append(results, result)
	}

	if err := p.notifier.NotifyUploadCompleted(ctx, uploaded, failed); err != nil {
		p.logger.Warn("completion notification failed", logging.Error(err))
	}
	return results, nil
}

func (p *Pipeline) processFile(ctx context.Context, index int, path string, report func(int, string, State, float64)) FileResult {
	name := filepath.Base(path)
	result := FileResult{SourcePath: path}

	uploadPath := path
	kind := "file"
	switch media.DetectKind(path) {
	case media.KindImage:
		kind = "image"
		converted, err := p.images.Convert(ctx, path, imageconv.Options{
			OnProgress: func(percent int, _ string) {
				report(index, name, imageState(percent), float64(percent))
			},
		})
		if err != nil {
			if media.IsHEIC(path) {
				// Nothing can display the original, so there is no
				// passthrough for a failed HEIC decode.
				result.State = StateFailed
				result.Err = err
				report(index, name, StateFailed, 0)
				return result
			}
			p.logger.Warn("image conversion failed, uploading original",
				logging.String(logging.FieldFile, name), logging.Error(err))
		} else {
			uploadPath = converted.Path
		}
	case media.KindVideo:
		kind = "video"
		compressed, err := p.videos.Compress(ctx, path, videoconv.Options{
			OnProgress: func(percent float64) {
				report(index, name, StateEncoding, percent)
			},
		})
		if err != nil {
			result.State = StateFailed
			result.Err = err
			report(index, name, StateFailed, 0)
			return result
		}
		uploadPath = compressed.Path
	}

	report(index, name, StateUploading, 0)
	stored, err := p.uploader.UploadFile(ctx, uploadPath)
	if err != nil {
		result.State = StateFailed
		result.Err = fmt.Errorf("upload %s: %w", name, err)
		report(index, name, StateFailed, 0)
		return result
	}

	result.State = StateDone
	result.Attachment = backend.Attachment{URL: stored.URL, Kind: kind}
	report(index, name, StateDone, 100)
	return result
}

// imageState maps the image converter's milestones onto pipeline states.
func imageState(percent int) State {
	switch {
	case percent < 40:
		return StateDecoding
	case percent < 80:
		return StateResampling
	default:
		return StateEncoding
	}
}

// Retryable reports whether a file result failed in a way worth retrying.
func (r FileResult) Retryable() bool {
	return r.Err != nil && services.Retryable(r.Err)
}

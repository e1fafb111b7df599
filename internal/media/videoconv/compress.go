package videoconv

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"plaza/internal/config"
	"plaza/internal/fileutil"
	"plaza/internal/logging"
	"plaza/internal/media/probe"
	"plaza/internal/services"
	"plaza/internal/services/ffmpeg"
)

const (
	// DefaultMaxHeight bounds output resolution when the caller does not
	// override it.
	DefaultMaxHeight = 720
	// DefaultBitrateKbps is the target video bitrate for re-encodes.
	DefaultBitrateKbps = 2500
	// outputFrameRate is fixed for every re-encode.
	outputFrameRate = 30
)

// Prober is the probe surface the compressor needs, narrowed for testing.
type Prober interface {
	Inspect(ctx context.Context, path string) (probe.Result, error)
}

type execProber struct {
	binary string
}

// NewProber returns a Prober that shells out to the given ffprobe binary.
func NewProber(binary string) Prober {
	return &execProber{binary: binary}
}

func (p *execProber) Inspect(ctx context.Context, path string) (probe.Result, error) {
	return probe.Inspect(ctx, p.binary, path)
}

// ProgressFunc receives compression progress from 0 to 100.
type ProgressFunc func(percent float64)

// Options adjusts a single compression run.
type Options struct {
	MaxHeight   int
	BitrateKbps int
	OnProgress  ProgressFunc
}

// Result describes the outcome of Compress. When Reencoded is false, Path is
// the untouched input file.
type Result struct {
	Path      string
	Width     int
	Height    int
	Codec     string
	SizeBytes int64
	Reencoded bool
}

// Compressor re-encodes videos into a size- and resolution-bounded,
// broadly playable format.
type Compressor struct {
	client     ffmpeg.Client
	prober     Prober
	outputDir  string
	maxHeight  int
	bitrate    int
	smallBytes int64
	logger     *slog.Logger

	encodersOnce sync.Once
	encoders     map[string]bool
	encodersErr  error
}

// New builds a Compressor from configuration.
func New(cfg *config.Config, client ffmpeg.Client, prober Prober, logger *slog.Logger) *Compressor {
	return &Compressor{
		client:     client,
		prober:     prober,
		outputDir:  cfg.Paths.OutputDir,
		maxHeight:  cfg.Media.MaxVideoHeight,
		bitrate:    cfg.Media.VideoBitrateKbps,
		smallBytes: cfg.Media.SmallVideoBytes,
		logger:     logging.NewComponentLogger(logger, "videoconv"),
	}
}

// supportedEncoders queries ffmpeg once and caches the answer for the
// lifetime of the Compressor.
func (c *Compressor) supportedEncoders(ctx context.Context) (map[string]bool, error) {
	c.encodersOnce.Do(func() {
		c.encoders, c.encodersErr = c.client.SupportedEncoders(ctx)
	})
	return c.encoders, c.encodersErr
}

// Compress re-encodes the video at path unless it is already small and
// within the resolution bound, in which case the input is returned as-is.
// Progress runs monotonically from 0 to 100 and the operation ends when
// the encode completes, not on a timer.
func (c *Compressor) Compress(ctx context.Context, path string, opts Options) (Result, error) {
	maxHeight := opts.MaxHeight
	if maxHeight <= 0 {
		maxHeight = c.maxHeight
	}
	bitrate := opts.BitrateKbps
	if bitrate <= 0 {
		bitrate = c.bitrate
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result, err := c.prober.Inspect(ctx, path)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "videoconv", "probe",
			fmt.Sprintf("probe failed for %s", filepath.Base(path)), err)
	}
	srcWidth, srcHeight := result.Dimensions()
	if srcWidth <= 0 || srcHeight <= 0 {
		return Result{}, services.Wrap(services.ErrUnsupportedMedia, "videoconv", "probe",
			fmt.Sprintf("no video stream in %s", filepath.Base(path)), nil)
	}
	size := result.SizeBytes()
	if size <= 0 {
		if info, statErr := os.Stat(path); statErr == nil {
			size = info.Size()
		}
	}

	if srcHeight <= maxHeight && size < c.smallBytes {
		if opts.OnProgress != nil {
			opts.OnProgress(100)
		}
		return Result{Path: path, Width: srcWidth, Height: srcHeight, SizeBytes: size}, nil
	}

	encoders, err := c.supportedEncoders(ctx)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "videoconv", "query encoders",
			"could not list ffmpeg encoders", err)
	}
	choice, err := selectCodec(encoders)
	if err != nil {
		return Result{}, err
	}

	targetWidth, targetHeight := targetDimensions(srcWidth, srcHeight, maxHeight)
	outputPath := filepath.Join(c.outputDir, fileutil.ReplaceExt(filepath.Base(path), choice.Ext))

	args := []string{
		"-vf", fmt.Sprintf("scale=%d:%d", targetWidth, targetHeight),
		"-r", fmt.Sprintf("%d", outputFrameRate),
		"-c:v", choice.Encoder,
		"-b:v", fmt.Sprintf("%dk", bitrate),
	}
	if result.AudioStreamCount() > 0 {
		args = append(args, "-c:a", choice.AudioCodec)
	} else {
		args = append(args, "-an")
	}

	c.logger.Info("compressing video",
		logging.String(logging.FieldFile, filepath.Base(path)),
		logging.String("codec", choice.Label),
		logging.Int("width", targetWidth),
		logging.Int("height", targetHeight))

	duration := time.Duration(result.DurationSeconds() * float64(time.Second))
	err = c.client.Transcode(ctx, ffmpeg.TranscodeRequest{
		Input:    path,
		Args:     args,
		Output:   outputPath,
		Duration: duration,
		Progress: func(update ffmpeg.ProgressUpdate) {
			if opts.OnProgress == nil {
				return
			}
			if update.Done {
				opts.OnProgress(100)
				return
			}
			opts.OnProgress(update.Percent)
		},
	})
	if err != nil {
		os.Remove(outputPath)
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, services.Wrap(services.ErrConversion, "videoconv", "transcode",
			fmt.Sprintf("compression failed for %s", filepath.Base(path)), err)
	}

	out := Result{
		Path:      outputPath,
		Width:     targetWidth,
		Height:    targetHeight,
		Codec:     choice.Label,
		Reencoded: true,
	}
	if info, statErr := os.Stat(outputPath); statErr == nil {
		out.SizeBytes = info.Size()
	}
	return out, nil
}

// targetDimensions scales the source down to the height bound, preserving
// aspect ratio and snapping width down to an even number for encoder
// compatibility. Sources already within the bound keep their height.
func targetDimensions(srcWidth, srcHeight, maxHeight int) (int, int) {
	height := srcHeight
	if height > maxHeight {
		height = maxHeight
	}
	width := int(math.Round(float64(srcWidth) * float64(height) / float64(srcHeight)))
	width -= width % 2
	if width < 2 {
		width = 2
	}
	return width, height
}

package imageconv

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"plaza/internal/config"
	"plaza/internal/fileutil"
	"plaza/internal/logging"
	"plaza/internal/media"
	"plaza/internal/services"
	"plaza/internal/services/heif"
)

// DefaultMaxWidth bounds output width when the caller does not specify one.
const DefaultMaxWidth = 1024

// ProgressFunc receives conversion progress at fixed milestones.
type ProgressFunc func(percent int, status string)

// Options adjusts a single conversion.
type Options struct {
	MaxWidth   int
	OnProgress ProgressFunc
}

// Result describes a converted image.
type Result struct {
	Path       string
	Width      int
	Height     int
	SourcePath string
	FromHEIC   bool
	// Passthrough marks a batch entry whose conversion failed and whose
	// original file was kept as-is.
	Passthrough bool
}

// Converter normalizes arbitrary images into size-bounded PNG files.
type Converter struct {
	decoder    heif.Decoder
	scratchDir string
	outputDir  string
	logger     *slog.Logger
}

// New builds a Converter from configuration. The decoder handles HEIC/HEIF
// inputs; everything else is decoded in-process.
func New(cfg *config.Config, decoder heif.Decoder, logger *slog.Logger) *Converter {
	return &Converter{
		decoder:    decoder,
		scratchDir: cfg.Paths.ScratchDir,
		outputDir:  cfg.Paths.OutputDir,
		logger:     logging.NewComponentLogger(logger, "imageconv"),
	}
}

// Convert normalizes one image into a PNG no wider than Options.MaxWidth.
// HEIC/HEIF inputs go through the external decoder first; a failing HEIC
// decode fails the conversion rather than passing the original through.
func (c *Converter) Convert(ctx context.Context, path string, opts Options) (Result, error) {
	maxWidth := opts.MaxWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	report := func(percent int, status string) {
		if opts.OnProgress != nil {
			opts.OnProgress(percent, status)
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	report(10, "inspecting file")

	decodePath := path
	fromHEIC := media.IsHEIC(path)
	if fromHEIC {
		report(20, "decoding HEIC")
		intermediate := filepath.Join(c.scratchDir, uuid.NewString()+".jpg")
		// The JPEG intermediate is scratch state; remove it on every exit path.
		defer os.Remove(intermediate)
		if err := c.decoder.DecodeToJPEG(ctx, path, intermediate); err != nil {
			return Result{}, services.Wrap(services.ErrConversion, "imageconv", "heic decode",
				fmt.Sprintf("HEIC conversion failed for %s", filepath.Base(path)), err)
		}
		decodePath = intermediate
	} else {
		report(20, "reading image")
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	report(40, "decoding image")
	src, err := decodeImage(decodePath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConversion, "imageconv", "decode",
			fmt.Sprintf("cannot decode %s", filepath.Base(path)), err)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	report(60, "resampling")
	resized := resize(src, maxWidth)

	report(80, "encoding PNG")
	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return Result{}, services.Wrap(services.ErrConversion, "imageconv", "encode png",
			fmt.Sprintf("cannot encode %s", filepath.Base(path)), err)
	}

	outPath := filepath.Join(c.outputDir, fileutil.ReplaceExt(filepath.Base(path), ".png"))
	if err := fileutil.WriteFileAtomic(outPath, buf.Bytes()); err != nil {
		return Result{}, services.Wrap(services.ErrConversion, "imageconv", "write output", "", err)
	}

	bounds := resized.Bounds()
	report(100, "done")
	c.logger.Info("converted image",
		logging.String(logging.FieldFile, filepath.Base(path)),
		logging.Int("width", bounds.Dx()),
		logging.Int("height", bounds.Dy()),
		logging.Bool("from_heic", fromHEIC),
	)
	return Result{
		Path:       outPath,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		SourcePath: path,
		FromHEIC:   fromHEIC,
	}, nil
}

func decodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// resize scales src down so its width does not exceed maxWidth, preserving
// aspect ratio. Sources at or under maxWidth keep their dimensions.
func resize(src image.Image, maxWidth int) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxWidth {
		return src
	}

	targetHeight := int(math.Round(float64(height) * float64(maxWidth) / float64(width)))
	if targetHeight < 1 {
		targetHeight = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, maxWidth, targetHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

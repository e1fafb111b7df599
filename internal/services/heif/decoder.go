// Package heif wraps the external HEIC/HEIF decode tool as a black box:
// input HEIC file in, JPEG intermediate out.
package heif

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"plaza/internal/services"
)

// Decoder converts an HEIC/HEIF capture into a JPEG intermediate file.
type Decoder interface {
	DecodeToJPEG(ctx context.Context, src, dst string) error
}

type execDecoder struct {
	binary string
}

// NewDecoder returns a Decoder backed by the given heif-convert binary.
func NewDecoder(binary string) Decoder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "heif-convert"
	}
	return &execDecoder{binary: binary}
}

func (d *execDecoder) DecodeToJPEG(ctx context.Context, src, dst string) error {
	if strings.TrimSpace(src) == "" || strings.TrimSpace(dst) == "" {
		return services.Wrap(services.ErrValidation, "heif", "decode", "source and destination paths are required", nil)
	}

	cmd := exec.CommandContext(ctx, d.binary, "-q", "92", src, dst)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		_ = os.Remove(dst)
		detail := strings.TrimSpace(output.String())
		if detail == "" {
			detail = "HEIC decode tool failed"
		}
		return services.Wrap(services.ErrConversion, "heif", "decode", detail, err)
	}

	// Multi-image containers produce numbered siblings; the first image is
	// the one we keep, matching the decoder's blob-array contract.
	if _, err := os.Stat(dst); err != nil {
		if alt := firstNumberedOutput(dst); alt != "" {
			return os.Rename(alt, dst)
		}
		return services.Wrap(services.ErrConversion, "heif", "decode", "decoder produced no output file", err)
	}
	return nil
}

func firstNumberedOutput(dst string) string {
	ext := ".jpg"
	base := strings.TrimSuffix(dst, ext)
	if base == dst {
		return ""
	}
	candidate := fmt.Sprintf("%s-1%s", base, ext)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

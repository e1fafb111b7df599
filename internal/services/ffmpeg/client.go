package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"plaza/internal/logging"
	"plaza/internal/services"
)

// ProgressUpdate reports transcode progress parsed from ffmpeg's progress stream.
type ProgressUpdate struct {
	OutTime time.Duration
	Percent float64
	Speed   string
	Done    bool
}

// TranscodeRequest describes a single ffmpeg invocation.
type TranscodeRequest struct {
	Input string
	// Args are the codec, filter, and rate arguments placed between the
	// input and the output path.
	Args   []string
	Output string
	// Duration of the source, used to derive percent from out_time.
	Duration time.Duration
	Progress func(ProgressUpdate)
}

// Client is the surface the video pipeline needs from ffmpeg.
type Client interface {
	SupportedEncoders(ctx context.Context) (map[string]bool, error)
	Transcode(ctx context.Context, req TranscodeRequest) error
}

type execClient struct {
	binary string
	logger *slog.Logger
}

// NewClient returns a Client that shells out to the given ffmpeg binary.
func NewClient(binary string, logger *slog.Logger) Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &execClient{binary: binary, logger: logging.NewComponentLogger(logger, "ffmpeg")}
}

func (c *execClient) SupportedEncoders(ctx context.Context) (map[string]bool, error) {
	cmd := exec.CommandContext(ctx, c.binary, "-hide_banner", "-encoders")
	output, err := cmd.Output()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ffmpeg", "list encoders", "is ffmpeg installed and on PATH?", err)
	}
	return ParseEncoders(output), nil
}

func (c *execClient) Transcode(ctx context.Context, req TranscodeRequest) error {
	if strings.TrimSpace(req.Input) == "" || strings.TrimSpace(req.Output) == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "transcode", "input and output paths are required", nil)
	}

	args := []string{"-hide_banner", "-nostdin", "-y", "-i", req.Input}
	args = append(args, req.Args...)
	args = append(args, "-progress", "pipe:1", "-loglevel", "error", req.Output)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("open progress pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Debug("starting transcode",
		logging.String("input", req.Input),
		logging.String("output", req.Output),
		logging.String("args", strings.Join(req.Args, " ")),
	)

	if err := cmd.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "start", "failed to launch the encoder process", err)
	}

	parser := newProgressParser(req.Duration)
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		update, ok := parser.feed(scanner.Text())
		if ok && req.Progress != nil {
			req.Progress(update)
		}
	}

	if err := cmd.Wait(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "encoder exited with an error"
		}
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "transcode", detail, err)
	}
	if req.Progress != nil {
		req.Progress(ProgressUpdate{OutTime: req.Duration, Percent: 100, Done: true})
	}
	return nil
}

// ParseEncoders extracts encoder names from `ffmpeg -encoders` output.
func ParseEncoders(output []byte) map[string]bool {
	encoders := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(output))
	body := false
	for scanner.Scan() {
		line := scanner.Text()
		if !body {
			// The encoder list begins after the "------" separator.
			if strings.Contains(line, "------") {
				body = true
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		encoders[fields[1]] = true
	}
	return encoders
}

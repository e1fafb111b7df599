package videoconv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"plaza/internal/media"
	"plaza/internal/services"
)

// Verdict is the advisory result of a needs-compression check. It drives
// messaging only; Compress is safe to run regardless of the verdict.
type Verdict struct {
	NeedsCompression bool
	Width            int
	Height           int
	Duration         time.Duration
	SizeBytes        int64
	Reason           string
}

// incompatibleContainers cannot be played back broadly and force re-encoding
// no matter their resolution or size.
var incompatibleContainers = map[string]bool{
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".wmv":  true,
	".flv":  true,
	".3gp":  true,
	".mpg":  true,
	".mpeg": true,
	".m2ts": true,
}

func incompatibleContainer(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if incompatibleContainers[ext] {
		return true
	}
	switch media.MIMEType(path) {
	case "video/quicktime", "video/x-msvideo", "video/x-matroska", "video/x-ms-wmv",
		"video/x-flv", "video/3gpp", "video/mpeg", "video/mp2t":
		return true
	}
	return false
}

// Check inspects a video and reports whether compression is advisable.
// Container incompatibility always wins; otherwise resolution and size
// decide. Probe detail is carried along even when the container rule
// already settled the answer.
func (c *Compressor) Check(ctx context.Context, path string) (Verdict, error) {
	verdict := Verdict{}
	result, err := c.prober.Inspect(ctx, path)
	if err != nil {
		if incompatibleContainer(path) {
			// The container alone is reason enough; the probe detail is
			// best effort.
			verdict.NeedsCompression = true
			verdict.Reason = fmt.Sprintf("%s container requires conversion", strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
			return verdict, nil
		}
		return verdict, services.Wrap(services.ErrExternalTool, "videoconv", "check",
			fmt.Sprintf("probe failed for %s", filepath.Base(path)), err)
	}

	verdict.Width, verdict.Height = result.Dimensions()
	verdict.Duration = time.Duration(result.DurationSeconds() * float64(time.Second))
	verdict.SizeBytes = result.SizeBytes()

	switch {
	case incompatibleContainer(path):
		verdict.NeedsCompression = true
		verdict.Reason = fmt.Sprintf("%s container requires conversion", strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	case verdict.Height > c.maxHeight:
		verdict.NeedsCompression = true
		verdict.Reason = fmt.Sprintf("resolution %dx%d exceeds %dp", verdict.Width, verdict.Height, c.maxHeight)
	case verdict.SizeBytes >= c.smallBytes:
		verdict.NeedsCompression = true
		verdict.Reason = fmt.Sprintf("file size %d bytes exceeds the small-file threshold", verdict.SizeBytes)
	default:
		verdict.Reason = "already compatible"
	}
	return verdict, nil
}

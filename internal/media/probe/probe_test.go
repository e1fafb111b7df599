package probe_test

import (
	"testing"

	"plaza/internal/media/probe"
)

const sampleOutput = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2}
  ],
  "format": {
    "filename": "clip.mov",
    "nb_streams": 2,
    "duration": "83.500000",
    "size": "83886080",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2"
  }
}`

func TestDecode(t *testing.T) {
	result, err := probe.Decode([]byte(sampleOutput))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	width, height := result.Dimensions()
	if width != 1920 || height != 1080 {
		t.Fatalf("unexpected dimensions %dx%d", width, height)
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 83.5 {
		t.Fatalf("unexpected duration %f", result.DurationSeconds())
	}
	if result.SizeBytes() != 83886080 {
		t.Fatalf("unexpected size %d", result.SizeBytes())
	}
}

func TestDecodeRejectsBadJSON(t *testing.T) {
	if _, err := probe.Decode([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDimensionsWithoutVideoStream(t *testing.T) {
	result, err := probe.Decode([]byte(`{"streams": [{"index": 0, "codec_type": "audio"}], "format": {}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if stream := result.VideoStream(); stream != nil {
		t.Fatalf("expected no video stream, got %+v", stream)
	}
	width, height := result.Dimensions()
	if width != 0 || height != 0 {
		t.Fatalf("expected zero dimensions, got %dx%d", width, height)
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected zero duration, got %f", result.DurationSeconds())
	}
}

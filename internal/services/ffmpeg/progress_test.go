package ffmpeg

import (
	"strconv"
	"testing"
	"time"
)

func TestProgressParserEmitsPerBlock(t *testing.T) {
	parser := newProgressParser(100 * time.Second)

	lines := []string{
		"frame=100",
		"out_time_us=25000000",
		"speed=2.1x",
		"progress=continue",
	}
	var update ProgressUpdate
	var emitted bool
	for _, line := range lines {
		update, emitted = parser.feed(line)
	}
	if !emitted {
		t.Fatal("expected update at end of block")
	}
	if update.OutTime != 25*time.Second {
		t.Fatalf("unexpected out time %s", update.OutTime)
	}
	if update.Percent != 25 {
		t.Fatalf("unexpected percent %f", update.Percent)
	}
	if update.Speed != "2.1x" {
		t.Fatalf("unexpected speed %q", update.Speed)
	}
	if update.Done {
		t.Fatal("block was not final")
	}
}

func TestProgressParserMonotonic(t *testing.T) {
	parser := newProgressParser(100 * time.Second)

	feedBlock := func(micros int64) float64 {
		t.Helper()
		parser.feed("out_time_us=" + strconv.FormatInt(micros, 10))
		update, ok := parser.feed("progress=continue")
		if !ok {
			t.Fatal("expected update")
		}
		return update.Percent
	}

	first := feedBlock(50_000_000)
	second := feedBlock(40_000_000) // out_time regression must not lower percent
	third := feedBlock(60_000_000)

	if first != 50 {
		t.Fatalf("unexpected first percent %f", first)
	}
	if second < first {
		t.Fatalf("percent went backwards: %f < %f", second, first)
	}
	if third != 60 {
		t.Fatalf("unexpected third percent %f", third)
	}
}

func TestProgressParserCapsBeforeEnd(t *testing.T) {
	parser := newProgressParser(10 * time.Second)

	parser.feed("out_time_us=11000000")
	update, _ := parser.feed("progress=continue")
	if update.Percent >= 100 {
		t.Fatalf("percent should stay below 100 until the end block, got %f", update.Percent)
	}

	update, _ = parser.feed("progress=end")
	if !update.Done || update.Percent != 100 {
		t.Fatalf("expected done at 100%%, got %+v", update)
	}
}

func TestProgressParserClockTimeFallback(t *testing.T) {
	parser := newProgressParser(time.Minute)
	parser.feed("out_time=00:00:30.000000")
	update, ok := parser.feed("progress=continue")
	if !ok {
		t.Fatal("expected update")
	}
	if update.Percent != 50 {
		t.Fatalf("unexpected percent %f", update.Percent)
	}
}

func TestParseEncoders(t *testing.T) {
	output := []byte(`Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              H.264 / AVC / MPEG-4 AVC
 V....D libvpx               On2 VP8
 V....D libvpx-vp9           Google VP9
 A....D aac                  AAC (Advanced Audio Coding)
`)
	encoders := ParseEncoders(output)
	for _, name := range []string{"libx264", "libvpx", "libvpx-vp9", "aac"} {
		if !encoders[name] {
			t.Fatalf("expected encoder %q to be detected", name)
		}
	}
	if encoders["V....D"] {
		t.Fatal("flag column leaked into encoder names")
	}
}

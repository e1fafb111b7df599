package imageconv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"plaza/internal/media/imageconv"
	"plaza/internal/testsupport"
)

type batchEvent struct {
	index  int
	name   string
	status imageconv.BatchStatus
}

func TestConvertBatchProcessesSequentially(t *testing.T) {
	converter, base := newConverter(t, &fakeDecoder{})
	paths := []string{
		filepath.Join(base, "a.png"),
		filepath.Join(base, "b.jpg"),
		filepath.Join(base, "c.png"),
	}
	testsupport.WritePNG(t, paths[0], 200, 100)
	testsupport.WriteJPEG(t, paths[1], 300, 300)
	testsupport.WritePNG(t, paths[2], 50, 50)

	var events []batchEvent
	results, err := converter.ConvertBatch(context.Background(), paths, imageconv.BatchOptions{
		MaxWidth: 100,
		OnProgress: func(index, total int, name string, status imageconv.BatchStatus) {
			if total != 3 {
				t.Fatalf("total = %d, want 3", total)
			}
			events = append(events, batchEvent{index, name, status})
		},
	})
	if err != nil {
		t.Fatalf("ConvertBatch failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, result := range results {
		if filepath.Ext(result.Path) != ".png" {
			t.Fatalf("result %d is not a png: %s", i, result.Path)
		}
		if result.SourcePath != paths[i] {
			t.Fatalf("result %d out of order: %s", i, result.SourcePath)
		}
	}

	want := []batchEvent{
		{0, "a.png", imageconv.StatusProcessing},
		{0, "a.png", imageconv.StatusCompleted},
		{1, "b.jpg", imageconv.StatusProcessing},
		{1, "b.jpg", imageconv.StatusCompleted},
		{2, "c.png", imageconv.StatusProcessing},
		{2, "c.png", imageconv.StatusCompleted},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(events), len(want), events)
	}
	for i, e := range want {
		if events[i] != e {
			t.Fatalf("event %d = %+v, want %+v", i, events[i], e)
		}
	}
}

func TestConvertBatchPassesThroughUnreadableNonHEIC(t *testing.T) {
	converter, base := newConverter(t, &fakeDecoder{})
	good := filepath.Join(base, "good.png")
	bad := filepath.Join(base, "bad.jpg")
	testsupport.WritePNG(t, good, 50, 50)
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write bad file: %v", err)
	}

	results, err := converter.ConvertBatch(context.Background(), []string{good, bad}, imageconv.BatchOptions{})
	if err != nil {
		t.Fatalf("ConvertBatch failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Passthrough {
		t.Fatal("good file should not be passthrough")
	}
	if !results[1].Passthrough || results[1].Path != bad {
		t.Fatalf("bad file should pass through unmodified, got %+v", results[1])
	}
}

func TestConvertBatchDropsFailedHEIC(t *testing.T) {
	converter, base := newConverter(t, &fakeDecoder{fail: true})
	good := filepath.Join(base, "good.png")
	broken := filepath.Join(base, "broken.heic")
	testsupport.WritePNG(t, good, 50, 50)
	if err := os.WriteFile(broken, []byte("heic-bytes"), 0o644); err != nil {
		t.Fatalf("write heic: %v", err)
	}

	var statuses []imageconv.BatchStatus
	results, err := converter.ConvertBatch(context.Background(), []string{broken, good}, imageconv.BatchOptions{
		OnProgress: func(_, _ int, _ string, status imageconv.BatchStatus) {
			statuses = append(statuses, status)
		},
	})
	if err != nil {
		t.Fatalf("ConvertBatch failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected HEIC dropped, got %d results", len(results))
	}
	if results[0].SourcePath != good {
		t.Fatalf("surviving result should be the good file, got %s", results[0].SourcePath)
	}
	wantStatuses := []imageconv.BatchStatus{
		imageconv.StatusProcessing, imageconv.StatusError,
		imageconv.StatusProcessing, imageconv.StatusCompleted,
	}
	for i, s := range wantStatuses {
		if statuses[i] != s {
			t.Fatalf("status %d = %s, want %s", i, statuses[i], s)
		}
	}
}

func TestConvertBatchStopsOnCancellation(t *testing.T) {
	converter, base := newConverter(t, &fakeDecoder{})
	src := filepath.Join(base, "a.png")
	testsupport.WritePNG(t, src, 50, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := converter.ConvertBatch(ctx, []string{src, src}, imageconv.BatchOptions{})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results after cancellation, got %d", len(results))
	}
}

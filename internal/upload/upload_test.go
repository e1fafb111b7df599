package upload_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"plaza/internal/backend"
	"plaza/internal/media/imageconv"
	"plaza/internal/media/videoconv"
	"plaza/internal/notifications"
	"plaza/internal/services"
	"plaza/internal/upload"
)

type fakeImages struct {
	err   error
	calls []string
}

func (f *fakeImages) Convert(ctx context.Context, path string, opts imageconv.Options) (imageconv.Result, error) {
	f.calls = append(f.calls, path)
	if opts.OnProgress != nil {
		for _, p := range []int{10, 60, 80, 100} {
			opts.OnProgress(p, "working")
		}
	}
	if f.err != nil {
		return imageconv.Result{}, f.err
	}
	return imageconv.Result{Path: path + ".png", SourcePath: path}, nil
}

type fakeVideos struct {
	err   error
	calls []string
}

func (f *fakeVideos) Compress(ctx context.Context, path string, opts videoconv.Options) (videoconv.Result, error) {
	f.calls = append(f.calls, path)
	if opts.OnProgress != nil {
		opts.OnProgress(50)
		opts.OnProgress(100)
	}
	if f.err != nil {
		return videoconv.Result{}, f.err
	}
	return videoconv.Result{Path: path + ".webm", Reencoded: true}, nil
}

type fakeUploader struct {
	err   error
	calls []string
}

func (f *fakeUploader) UploadFile(ctx context.Context, path string) (backend.UploadResult, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return backend.UploadResult{}, f.err
	}
	return backend.UploadResult{URL: "https://cdn.example/" + path}, nil
}

type recordingNotifier struct {
	uploads []string
	errors  []string
}

func (r *recordingNotifier) NotifyUploadCompleted(_ context.Context, uploaded, failed int) error {
	r.uploads = append(r.uploads, fmt.Sprintf("%d/%d", uploaded, failed))
	return nil
}

func (r *recordingNotifier) NotifyConversionCompleted(_ context.Context, filename, kind string) error {
	return nil
}

func (r *recordingNotifier) NotifyError(_ context.Context, err error, label string) error {
	r.errors = append(r.errors, label)
	return nil
}

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

var _ notifications.Service = (*recordingNotifier)(nil)

func newPipeline(images *fakeImages, videos *fakeVideos, uploader *fakeUploader, notifier notifications.Service) *upload.Pipeline {
	return upload.New(images, videos, uploader, notifier, nil)
}

func TestRunConvertsAndUploadsInOrder(t *testing.T) {
	images := &fakeImages{}
	videos := &fakeVideos{}
	uploader := &fakeUploader{}
	notifier := &recordingNotifier{}
	pipeline := newPipeline(images, videos, uploader, notifier)

	var states []upload.State
	results, err := pipeline.Run(context.Background(), []string{"a.jpg", "b.mp4", "c.pdf"}, upload.Options{
		OnProgress: func(p upload.Progress) {
			if p.Total != 3 {
				t.Errorf("total = %d", p.Total)
			}
			states = append(states, p.State)
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}

	if results[0].Attachment.Kind != "image" || results[0].Attachment.URL != "https://cdn.example/a.jpg.png" {
		t.Fatalf("image attachment = %+v", results[0].Attachment)
	}
	if results[1].Attachment.Kind != "video" || results[1].Attachment.URL != "https://cdn.example/b.mp4.webm" {
		t.Fatalf("video attachment = %+v", results[1].Attachment)
	}
	// Unclassified files upload as-is.
	if results[2].Attachment.Kind != "file" || results[2].Attachment.URL != "https://cdn.example/c.pdf" {
		t.Fatalf("file attachment = %+v", results[2].Attachment)
	}
	for i, r := range results {
		if r.State != upload.StateDone {
			t.Fatalf("result %d state = %s", i, r.State)
		}
	}
	if want := []string{"a.jpg.png", "b.mp4.webm", "c.pdf"}; len(uploader.calls) != 3 ||
		uploader.calls[0] != want[0] || uploader.calls[1] != want[1] || uploader.calls[2] != want[2] {
		t.Fatalf("upload calls = %v", uploader.calls)
	}
	if len(notifier.uploads) != 1 || notifier.uploads[0] != "3/0" {
		t.Fatalf("completion notifications = %v", notifier.uploads)
	}

	// The image walks through decode, resample, encode before uploading.
	sawResampling := false
	for _, s := range states {
		if s == upload.StateResampling {
			sawResampling = true
		}
	}
	if !sawResampling {
		t.Fatalf("states missing resampling: %v", states)
	}
}

func TestRunFailedHEICIsDropped(t *testing.T) {
	images := &fakeImages{err: services.Wrap(services.ErrConversion, "imageconv", "decode", "broken", nil)}
	uploader := &fakeUploader{}
	notifier := &recordingNotifier{}
	pipeline := newPipeline(images, &fakeVideos{}, uploader, notifier)

	results, err := pipeline.Run(context.Background(), []string{"photo.heic"}, upload.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].State != upload.StateFailed || results[0].Err == nil {
		t.Fatalf("result = %+v", results[0])
	}
	if len(uploader.calls) != 0 {
		t.Fatalf("HEIC failure must not upload, calls = %v", uploader.calls)
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "photo.heic" {
		t.Fatalf("error notifications = %v", notifier.errors)
	}
	if len(notifier.uploads) != 1 || notifier.uploads[0] != "0/1" {
		t.Fatalf("completion notifications = %v", notifier.uploads)
	}
}

func TestRunNonHEICImageFailureUploadsOriginal(t *testing.T) {
	images := &fakeImages{err: services.Wrap(services.ErrConversion, "imageconv", "decode", "corrupt", nil)}
	uploader := &fakeUploader{}
	pipeline := newPipeline(images, &fakeVideos{}, uploader, &recordingNotifier{})

	results, err := pipeline.Run(context.Background(), []string{"photo.jpg"}, upload.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].State != upload.StateDone {
		t.Fatalf("result = %+v", results[0])
	}
	if len(uploader.calls) != 1 || uploader.calls[0] != "photo.jpg" {
		t.Fatalf("expected the original to upload, calls = %v", uploader.calls)
	}
}

func TestRunVideoFailureMarksFileFailedAndContinues(t *testing.T) {
	videos := &fakeVideos{err: services.Wrap(services.ErrConversion, "videoconv", "transcode", "crashed", nil)}
	uploader := &fakeUploader{}
	notifier := &recordingNotifier{}
	pipeline := newPipeline(&fakeImages{}, videos, uploader, notifier)

	results, err := pipeline.Run(context.Background(), []string{"clip.mp4", "photo.jpg"}, upload.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].State != upload.StateFailed {
		t.Fatalf("video result = %+v", results[0])
	}
	if results[1].State != upload.StateDone {
		t.Fatalf("batch did not continue, result = %+v", results[1])
	}
	if len(notifier.uploads) != 1 || notifier.uploads[0] != "1/1" {
		t.Fatalf("completion notifications = %v", notifier.uploads)
	}
}

func TestRunUploadErrorIsRetryableWhenTransient(t *testing.T) {
	uploader := &fakeUploader{err: services.Wrap(services.ErrTransient, "backend", "upload", "502", nil)}
	pipeline := newPipeline(&fakeImages{}, &fakeVideos{}, uploader, &recordingNotifier{})

	results, err := pipeline.Run(context.Background(), []string{"photo.jpg"}, upload.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].State != upload.StateFailed {
		t.Fatalf("result = %+v", results[0])
	}
	if !results[0].Retryable() {
		t.Fatal("transient upload failure should be retryable")
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	pipeline := newPipeline(&fakeImages{}, &fakeVideos{}, &fakeUploader{}, &recordingNotifier{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := pipeline.Run(ctx, []string{"a.jpg"}, upload.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("results after cancellation = %v", results)
	}
}

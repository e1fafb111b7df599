package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"plaza/internal/backend"
	"plaza/internal/services"
	"plaza/internal/testsupport"
)

func newClient(t *testing.T, handler http.Handler) *backend.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := testsupport.NewConfig(t, testsupport.WithBackendURL(server.URL))
	cfg.Backend.APIKey = "test-key"
	cfg.Backend.UserID = "user-1"
	return backend.New(cfg, nil)
}

func TestListPostsSendsFiltersAndHeaders(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth, gotRequestID string
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = map[string]string{
			"type":   r.URL.Query().Get("type"),
			"tag":    r.URL.Query().Get("tag"),
			"search": r.URL.Query().Get("search"),
			"page":   r.URL.Query().Get("page"),
		}
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]backend.Post{{ID: "p1", Body: "hello", Type: backend.PostGeneral}})
	}))

	posts, err := client.ListPosts(context.Background(), backend.ListPostsOptions{
		Type: backend.PostGeneral, Tag: "news", Search: "plaza", Page: 2,
	})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "p1" {
		t.Fatalf("posts = %+v", posts)
	}
	if gotQuery["type"] != "general" || gotQuery["tag"] != "news" || gotQuery["search"] != "plaza" || gotQuery["page"] != "2" {
		t.Fatalf("query = %v", gotQuery)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("missing request ID header")
	}
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		marker error
	}{
		{http.StatusNotFound, services.ErrNotFound},
		{http.StatusTooManyRequests, services.ErrTransient},
		{http.StatusInternalServerError, services.ErrTransient},
		{http.StatusBadGateway, services.ErrTransient},
		{http.StatusBadRequest, services.ErrValidation},
		{http.StatusForbidden, services.ErrValidation},
	}
	for _, tc := range cases {
		client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.status)
		}))
		_, err := client.GetPost(context.Background(), "p1")
		if !errors.Is(err, tc.marker) {
			t.Errorf("status %d: got %v, want marker %v", tc.status, err, tc.marker)
		}
	}
}

func TestCreatePostRoundTrip(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var req backend.CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Type != backend.PostClassified || len(req.Attachments) != 1 {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(backend.Post{ID: "p9", Body: req.Body, Type: req.Type})
	}))

	post, err := client.CreatePost(context.Background(), backend.CreatePostRequest{
		Body: "selling a bike",
		Type: backend.PostClassified,
		Attachments: []backend.Attachment{{URL: "https://cdn.example/bike.png", Kind: "image"}},
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.ID != "p9" || post.Body != "selling a bike" {
		t.Fatalf("post = %+v", post)
	}
}

func TestActiveAdsPassesTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("active_at"); got != "2026-08-31T12:00:00Z" {
			t.Errorf("active_at = %q", got)
		}
		json.NewEncoder(w).Encode([]backend.Ad{{ID: "ad-1", Priority: 3}})
	}))

	ads, err := client.ActiveAds(context.Background(), now)
	if err != nil {
		t.Fatalf("ActiveAds: %v", err)
	}
	if len(ads) != 1 || ads[0].ID != "ad-1" {
		t.Fatalf("ads = %+v", ads)
	}
}

func TestMarketPrices(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/market/prices" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("date") != "2026-08-31" || r.URL.Query().Get("market") != "central" {
			t.Errorf("query = %v", r.URL.Query())
		}
		json.NewEncoder(w).Encode([]backend.MarketPriceRow{
			{Market: "central", Date: "2026-08-31", Item: "apples", AveragePrice: 1200, Volume: 40},
		})
	}))

	rows, err := client.MarketPrices(context.Background(), "central", "2026-08-31")
	if err != nil {
		t.Fatalf("MarketPrices: %v", err)
	}
	if len(rows) != 1 || rows[0].Item != "apples" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestUploadFileStreamsMultipart(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "image-bytes" || header.Filename != "photo.png" {
			t.Errorf("file %q content %q", header.Filename, data)
		}
		json.NewEncoder(w).Encode(backend.UploadResult{URL: "https://cdn.example/photo.png"})
	}))

	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, []byte("image-bytes"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	result, err := client.UploadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if result.URL != "https://cdn.example/photo.png" {
		t.Fatalf("url = %q", result.URL)
	}
}

func TestFetchLinkPreview(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/functions/link-preview" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req struct {
			URL string `json:"url"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(backend.LinkPreview{URL: req.URL, Title: "Example"})
	}))

	preview, err := client.FetchLinkPreview(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("FetchLinkPreview: %v", err)
	}
	if preview.Title != "Example" || preview.URL != "https://example.com" {
		t.Fatalf("preview = %+v", preview)
	}

	if _, err := client.FetchLinkPreview(context.Background(), ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("empty URL: got %v", err)
	}
}

func TestCommentsAndLikes(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/posts/p1/comments" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]backend.Comment{
				{ID: "c1", PostID: "p1", Body: "welcome"},
				{ID: "c2", PostID: "p1", ParentCommentID: "c1", Body: "thanks"},
			})
		case r.URL.Path == "/posts/p1/comments" && r.Method == http.MethodPost:
			var req backend.CreateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode comment request: %v", err)
			}
			if !req.Secret || req.ParentCommentID != "c1" {
				t.Errorf("request = %+v", req)
			}
			json.NewEncoder(w).Encode(backend.Comment{ID: "c3", PostID: "p1", Body: req.Body, Secret: req.Secret})
		case r.URL.Path == "/posts/p1/like":
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/comments/c1/like":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	comments, err := client.ListComments(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 2 || comments[1].ParentCommentID != "c1" {
		t.Fatalf("comments = %+v", comments)
	}

	created, err := client.CreateComment(context.Background(), "p1", backend.CreateCommentRequest{
		ParentCommentID: "c1", Body: "only for you", Secret: true,
	})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if created.ID != "c3" || !created.Secret {
		t.Fatalf("created = %+v", created)
	}

	if err := client.LikePost(context.Background(), "p1"); err != nil {
		t.Fatalf("LikePost: %v", err)
	}
	if err := client.LikeComment(context.Background(), "c1"); err != nil {
		t.Fatalf("LikeComment: %v", err)
	}
}

func TestContextCancellationSurfaces(t *testing.T) {
	client := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.GetPost(ctx, "p1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

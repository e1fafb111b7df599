package backend_test

import (
	"testing"

	"plaza/internal/backend"
)

func TestMaskSecretComments(t *testing.T) {
	comments := []backend.Comment{
		{ID: "c1", AuthorID: "alice", Body: "public note"},
		{ID: "c2", AuthorID: "alice", Body: "for your eyes only", Secret: true},
		{ID: "c3", AuthorID: "bob", Body: "another secret", Secret: true},
	}

	cases := []struct {
		name   string
		viewer backend.Viewer
		want   []string
	}{
		{
			name:   "stranger sees masked bodies",
			viewer: backend.Viewer{UserID: "carol", PostOwnerID: "dave"},
			want:   []string{"public note", "This comment is private.", "This comment is private."},
		},
		{
			name:   "author sees own secret",
			viewer: backend.Viewer{UserID: "alice", PostOwnerID: "dave"},
			want:   []string{"public note", "for your eyes only", "This comment is private."},
		},
		{
			name:   "post owner sees everything",
			viewer: backend.Viewer{UserID: "dave", PostOwnerID: "dave"},
			want:   []string{"public note", "for your eyes only", "another secret"},
		},
		{
			name:   "moderator sees everything",
			viewer: backend.Viewer{UserID: "eve", PostOwnerID: "dave", Moderator: true},
			want:   []string{"public note", "for your eyes only", "another secret"},
		},
		{
			name:   "anonymous viewer sees masked bodies",
			viewer: backend.Viewer{},
			want:   []string{"public note", "This comment is private.", "This comment is private."},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			masked := backend.MaskSecretComments(comments, tc.viewer)
			for i, want := range tc.want {
				if masked[i].Body != want {
					t.Errorf("comment %d body = %q, want %q", i, masked[i].Body, want)
				}
			}
			// The input slice is never mutated.
			if comments[1].Body != "for your eyes only" {
				t.Fatal("MaskSecretComments mutated its input")
			}
		})
	}
}

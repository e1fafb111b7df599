package backend

import "time"

// PostType tags a feed post.
type PostType string

const (
	PostGeneral    PostType = "general"
	PostQuestion   PostType = "question"
	PostClassified PostType = "classified"
)

// Attachment references one uploaded media object.
type Attachment struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

// Post is a feed record as the backend returns it. The backend owns the
// schema; this is the shape the client consumes.
type Post struct {
	ID          string       `json:"id"`
	AuthorID    string       `json:"author_id"`
	AuthorName  string       `json:"author_name"`
	Body        string       `json:"body"`
	Type        PostType     `json:"type"`
	Tag         string       `json:"tag,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Views       int          `json:"views"`
	Likes       int          `json:"likes"`
	Comments    int          `json:"comments"`
	Pinned      bool         `json:"pinned"`
	ReportCount int          `json:"report_count"`
	Private     bool         `json:"private"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Comment is one reply on a post. Secret comments are visible to the
// author, the post owner, and moderators; everyone else sees masked text.
type Comment struct {
	ID              string    `json:"id"`
	PostID          string    `json:"post_id"`
	ParentCommentID string    `json:"parent_comment_id,omitempty"`
	AuthorID        string    `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	Body            string    `json:"body"`
	Secret          bool      `json:"secret"`
	Likes           int       `json:"likes"`
	CreatedAt       time.Time `json:"created_at"`
}

// Ad is a scheduled advertisement with its scoring inputs.
type Ad struct {
	ID          string    `json:"id"`
	ImageURL    string    `json:"image_url"`
	LinkURL     string    `json:"link_url"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Priority    float64   `json:"priority"`
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
}

// MarketPriceRow is one market's prices for one date.
type MarketPriceRow struct {
	Market       string  `json:"market"`
	Date         string  `json:"date"`
	Item         string  `json:"item"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	AveragePrice float64 `json:"average_price"`
	Volume       int64   `json:"volume"`
	// PreviousAverage is the prior period's average, for the comparison
	// column; zero when the backend has no prior data.
	PreviousAverage float64 `json:"previous_average"`
}

// LinkPreview is the metadata the backend's preview function extracts from
// a URL.
type LinkPreview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// Viewer identifies who is looking at a set of comments, for secret-comment
// masking.
type Viewer struct {
	UserID      string
	PostOwnerID string
	Moderator   bool
}

const maskedCommentBody = "This comment is private."

// MaskSecretComments hides secret comment bodies from viewers who are not
// the comment author, the post owner, or a moderator. Masking is a display
// convenience, not an access control; the backend decides what it returns.
func MaskSecretComments(comments []Comment, viewer Viewer) []Comment {
	masked := make([]Comment, len(comments))
	copy(masked, comments)
	for i := range masked {
		c := &masked[i]
		if !c.Secret {
			continue
		}
		if viewer.Moderator {
			continue
		}
		if viewer.UserID != "" && (viewer.UserID == c.AuthorID || viewer.UserID == viewer.PostOwnerID) {
			continue
		}
		c.Body = maskedCommentBody
	}
	return masked
}

package entity

import "time"

// Post is a document of the content repository as returned by its API.
type Post struct {
	UID string `json:"uid"`
	// ISO-8601 timestamp, null for documents that were never published.
	FirstPublicationDate *string  `json:"first_publication_date"`
	Data                 PostData `json:"data"`
}

type PostData struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
}

// PostPagination is one page of posts and the cursor to the next one.
// An empty NextPage means there are no more pages.
type PostPagination struct {
	NextPage string `json:"next_page"`
	Results  []Post `json:"results"`
}

// DisplayPost is the flattened post used for rendering.
type DisplayPost struct {
	Slug     string
	Title    string
	Subtitle string
	Author   string
	// Zero when the post has no publication date.
	CreatedAt time.Time
}

// Href returns the path of the post page.
func (p DisplayPost) Href() string {
	return "/post/" + p.Slug
}

// QueryOptions narrows a document query.
type QueryOptions struct {
	// Fetch lists the data fields to return, all of them when empty.
	Fetch    []string
	PageSize int
}

// Fragment is a rendered page of posts appended by the load-more control.
type Fragment struct {
	HTML string `json:"html"`
	// Link to the next fragment, empty when pagination is exhausted.
	NextPage string `json:"next_page"`
}

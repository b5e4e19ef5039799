package types

// SortOrder is the direction of a list ordering.
type SortOrder string

// Supported sort orders.
const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ArticleSort names a column articles can be ordered by.
type ArticleSort string

// Article sort columns accepted by the list endpoint.
const (
	ArticleSortCreatedAt ArticleSort = "created_at"
	ArticleSortTitle     ArticleSort = "title"
	ArticleSortTopic     ArticleSort = "topic"
	ArticleSortAuthor    ArticleSort = "author"
	ArticleSortVotes     ArticleSort = "votes"
)

// CommentSort names a column comments can be ordered by.
type CommentSort string

// Comment sort columns accepted by the list endpoint.
const (
	CommentSortCreatedAt CommentSort = "created_at"
	CommentSortAuthor    CommentSort = "author"
	CommentSortVotes     CommentSort = "votes"
)

// Page is a validated limit/offset window.
type Page struct {
	Limit  int
	Offset int
}

// ArticleQuery is a validated article listing request.
type ArticleQuery struct {
	// Topic filters by topic slug when non-empty.
	Topic string
	Sort  ArticleSort
	Order SortOrder
	Page  Page
}

// CommentQuery is a validated listing request for one article's comments.
type CommentQuery struct {
	Sort  CommentSort
	Order SortOrder
	Page  Page
}

// ArticleList is one page of articles. TotalCount is set only when the
// caller asked for it.
type ArticleList struct {
	Articles   []Article `json:"articles"`
	TotalCount *int      `json:"total_count,omitempty"`
}

// CommentList is one page of an article's comments.
type CommentList struct {
	Comments   []Comment `json:"comments"`
	TotalCount *int      `json:"total_count,omitempty"`
}

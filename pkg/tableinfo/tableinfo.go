package tableinfo

const (
	PostsTableName = "posts"

	PostIDColumn          = "id"
	PostTitleColumn       = "title"
	PostDescriptionColumn = "description"
	PostImageColumn       = "image"
	PostDateColumn        = "date"
	PostReadTimeColumn    = "read_time"
	PostSlugColumn        = "slug"
	PostLinkColumn        = "link"
	PostPositionColumn    = "position"
)

// PostColumns is the scan order used by every posts query.
var PostColumns = []string{
	PostIDColumn,
	PostTitleColumn,
	PostDescriptionColumn,
	PostImageColumn,
	PostDateColumn,
	PostReadTimeColumn,
	PostSlugColumn,
	PostLinkColumn,
}

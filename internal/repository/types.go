package repository

// PostListFilter 查询文章列表的过滤条件
type PostListFilter struct {
	Page          int
	PageSize      int
	OwnerID       *uint
	CategoryID    uint
	Search        string
	OnlyPublished bool
	WithCategory  bool
	OrderBy       string
}

// CategoryListFilter 查询分类列表的过滤条件
type CategoryListFilter struct {
	Page     int
	PageSize int
	Search   string
}

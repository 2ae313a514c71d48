package domain

const (
	// DefaultPageLimit is the page size used when the caller supplies none.
	DefaultPageLimit = 20
	// MaxPageLimit caps the page size to prevent runaway queries.
	MaxPageLimit = 200
)

// PageParams carries limit/offset values from the HTTP layer to the repo layer.
type PageParams struct {
	// Limit is the maximum number of items to return, in [1, MaxPageLimit].
	Limit int
	// Offset is the number of matching items to skip, >= 0.
	Offset int
}

// NewPageParams builds a PageParams from optional HTTP query params.
// Nil pointers fall back to sane defaults (limit=20, offset=0).
// Limits below 1 fall back to the default, limits above 200 are capped and
// negative offsets become 0.
func NewPageParams(limit, offset *int) PageParams {
	p := PageParams{Limit: DefaultPageLimit}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, MaxPageLimit)
	}
	if offset != nil && *offset > 0 {
		p.Offset = *offset
	}
	return p
}

// Page is one slice of a filtered result set plus the total match count.
type Page[T any] struct {
	Items  []T
	Total  int64
	Limit  int
	Offset int
}

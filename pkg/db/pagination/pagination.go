package pagination

// Pagination is the offset-based paging contract shared by list endpoints.
type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=10" validate:"gte=1,lte=100"` // Min 1, Max 100
}

// Normalize clamps out-of-range values to usable defaults.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Pagination) Limit() int {
	return p.PageSize
}

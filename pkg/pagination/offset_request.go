package pagination

import "fmt"

// OffsetRequest is a 1-based page request bound from the page and size query
// parameters.
type OffsetRequest struct {
	Page int `json:"page" query:"page"`
	Size int `json:"size" query:"size"`
}

// Validate fills zero values with defaults and rejects negative or oversized
// requests.
func (r *OffsetRequest) Validate() error {
	if r.Page < 0 || r.Size < 0 {
		return fmt.Errorf("page and size must not be negative")
	}
	if r.Size > PageMaxSize {
		return fmt.Errorf("size must be at most %d", PageMaxSize)
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Size == 0 {
		r.Size = PageDefaultSize
	}
	return nil
}

// Offset is the number of items before the requested page.
func (r OffsetRequest) Offset() int {
	return (r.Page - 1) * r.Size
}

package catalog

// CmsPage is an active content-management record with localized title and
// body.
type CmsPage struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	MetaTitle string `json:"metaTitle"`
	Content   string `json:"content"`
	Active    bool   `json:"active"`
}

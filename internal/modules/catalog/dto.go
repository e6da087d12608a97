package catalog

type CreateBookRequest struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author" binding:"required"`
	ISBN          string `json:"isbn" binding:"required"`
	Genre         string `json:"genre" binding:"required"`
	Description   string `json:"description"`
	PublishedYear int    `json:"published_year" binding:"required"`
	TotalCopies   int    `json:"total_copies" binding:"required,gte=1"`
	CoverUploadID string `json:"cover_upload_id"`
}

type UpdateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	ISBN          *string `json:"isbn"`
	Genre         *string `json:"genre"`
	Description   *string `json:"description"`
	PublishedYear *int    `json:"published_year"`
	TotalCopies   *int    `json:"total_copies" binding:"omitempty,gte=0"`
	CoverUploadID *string `json:"cover_upload_id"`
}

type ListBooksQuery struct {
	Search string
	Genre  string
	Limit  int
	Offset int
}

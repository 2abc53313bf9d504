package books

// CreateBookParams are the fields for a catalog ingestion request.
type CreateBookParams struct {
	Title     string `json:"title" mod:"trim" validate:"required"`
	Author    string `json:"author" mod:"trim" validate:"required"`
	Publisher string `json:"publisher" mod:"trim" validate:"required"`
}

// CreateBookPayload nests the params under the resource key.
type CreateBookPayload struct {
	Book CreateBookParams `json:"book"`
}

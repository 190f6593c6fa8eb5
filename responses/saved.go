package responses

// Saved - information about a page upsert. ID carries the server-assigned
// identifier so a page created under a temporary id can be reconciled.
type Saved struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	ID           string `json:"id,omitempty"`
	Slug         string `json:"slug,omitempty"`
}

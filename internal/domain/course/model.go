package course

// Course is a DIY Lab course listing owned by the backend. Description is
// markdown, rendered by the gateway.
type Course struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration,omitempty"`
	Fee         int    `json:"fee,omitempty"`
}

package lottery

// Enrichment is the registry-sourced sub-record attached to a participant.
// It is namespaced apart from the self-reported fields and replaced as a
// whole on every merge, never patched field by field.
type Enrichment struct {
	Name       string `json:"name,omitempty"`
	Department string `json:"department,omitempty"`
	Grade      string `json:"grade,omitempty"`
	Email      string `json:"email,omitempty"`
	NationalID string `json:"national_id,omitempty"`
}

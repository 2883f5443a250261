package model

// UserProfile is the subset of a user account the suggestion pipeline reads.
// Absent fields are zero values, which the document builder treats as empty text.
type UserProfile struct {
	ID        string   `json:"id" yaml:"id" validate:"required"`
	Name      string   `json:"name,omitempty" yaml:"name"`
	Location  string   `json:"location,omitempty" yaml:"location"`
	Interests []string `json:"interests,omitempty" yaml:"interests"`
	Goals     []string `json:"goals,omitempty" yaml:"goals"`
	Bio       string   `json:"bio,omitempty" yaml:"bio"`
}

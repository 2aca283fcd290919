package models

// Retailer categories.
const (
	RetailerCategoryPhysical = "Physical"
	RetailerCategoryDigital  = "Digital"
)

// RetailerContact is owned by its parent retailer and has no lifecycle
// of its own.
type RetailerContact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Retailer is a physical or digital retail partner.
type Retailer struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Category         string            `json:"category"`
	Type             string            `json:"type"`
	Contacts         []RetailerContact `json:"contacts"`
	LineReviewTiming string            `json:"lineReviewTiming"`
	ResetDates       string            `json:"resetDates"`
	Notes            string            `json:"notes"`
	CreatedAt        string            `json:"createdAt,omitempty"`
	UpdatedAt        string            `json:"updatedAt,omitempty"`
}

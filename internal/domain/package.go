package domain

import "time"

// TourPackage is a published tour offering. Included and Images are
// ordered lists and are stored exactly as submitted.
type TourPackage struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Included    []string  `json:"included"`
	Images      []string  `json:"images"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PackageInput is the full body accepted on create and update. Updates
// re-validate the whole shape; there is no partial patch for packages.
type PackageInput struct {
	Name        string   `json:"name" validate:"required,min=3"`
	Description string   `json:"description" validate:"required,min=10"`
	Duration    string   `json:"duration" validate:"required"`
	Included    []string `json:"included"`
	Images      []string `json:"images" validate:"dive,url"`
}

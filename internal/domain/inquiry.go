package domain

import "time"

type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "new"
	InquiryContacted InquiryStatus = "contacted"
	InquiryConfirmed InquiryStatus = "confirmed"
	InquiryCancelled InquiryStatus = "cancelled"
)

func ParseInquiryStatus(s string) (InquiryStatus, bool) {
	switch InquiryStatus(s) {
	case InquiryNew, InquiryContacted, InquiryConfirmed, InquiryCancelled:
		return InquiryStatus(s), true
	default:
		return "", false
	}
}

// Inquiry is a customer-submitted booking request tied to one package.
type Inquiry struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	PackageID       string        `json:"package_id"`
	TravelDate      string        `json:"date"`
	NumberOfPeople  int           `json:"number_of_people"`
	SpecialRequests string        `json:"special_requests"`
	Status          InquiryStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	// PackageName is joined on reads for display in the admin table.
	PackageName string `json:"package_name,omitempty"`
}

type InquiryInput struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,min=5"`
	PackageID       string `json:"package_id" validate:"required"`
	TravelDate      string `json:"date" validate:"required,datetime=2006-01-02"`
	NumberOfPeople  int    `json:"number_of_people" validate:"required,gt=0"`
	SpecialRequests string `json:"special_requests"`
}

// InquiryFilter narrows the admin list. Search matches name, email or
// phone; PackageIDs and Statuses are multi-value.
type InquiryFilter struct {
	Search     string
	TravelDate string
	PackageIDs []string
	Statuses   []InquiryStatus
	Page       int
	PageSize   int
}

type BulkStatusInput struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,required"`
	Status string   `json:"status" validate:"required,oneof=new contacted confirmed cancelled"`
}

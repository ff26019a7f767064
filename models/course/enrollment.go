package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment status for course enrollments
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
)

// CourseEnrollment records a user's purchase of a course. The payment
// provider webhook updates Status; a PAID row is what gates progress
// creation at the course level.
type CourseEnrollment struct {
	gorm.Model
	UserID            uint           `json:"user_id" gorm:"index;not null"`
	CourseID          uint           `json:"course_id" gorm:"index;not null"`
	Provider          string         `json:"provider" gorm:"default:'STRIPE'"` // STRIPE, PAYPAL, GPAY
	ProviderPaymentID string         `json:"provider_payment_id" gorm:"index"`
	Status            string         `json:"status" gorm:"default:'PENDING'"`
	Amount            int64          `json:"amount" gorm:"default:0"` // smallest currency unit
	Currency          string         `json:"currency" gorm:"default:'USD'"`
	FailureCode       string         `json:"failure_code"`
	FailureMessage    string         `json:"failure_message"`
	ProviderMetadata  datatypes.JSON `json:"provider_metadata"`
	IsDeleted         bool           `gorm:"default:false"`
}

package models

import (
	"time"
)

// Gender as recorded at registration
type Gender string

const (
	GenderMale      Gender = "M"
	GenderFemale    Gender = "F"
	GenderNonBinary Gender = "NB"
	GenderOther     Gender = "O"
)

// RegistrationOrigin is where the customer signed up
type RegistrationOrigin string

const (
	OriginQRCode  RegistrationOrigin = "qr_code"
	OriginLink    RegistrationOrigin = "link"
	OriginBalcony RegistrationOrigin = "balcony"
	OriginPOS     RegistrationOrigin = "pos"
)

// Customer is a registered loyalty customer. Sales reference one with
// probability 0.7; the rest are anonymous.
type Customer struct {
	ID int64 `db:"id" json:"id"`

	Name        string    `db:"customer_name" json:"customer_name"`
	Email       string    `db:"email" json:"email"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	CPF         string    `db:"cpf" json:"cpf"` // formatted NNN.NNN.NNN-NN with valid check digits
	BirthDate   time.Time `db:"birth_date" json:"birth_date"`
	Gender      Gender    `db:"gender" json:"gender"`

	AgreeTerms             bool               `db:"agree_terms" json:"agree_terms"`
	ReceivePromotionsEmail bool               `db:"receive_promotions_email" json:"receive_promotions_email"`
	RegistrationOrigin     RegistrationOrigin `db:"registration_origin" json:"registration_origin"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

package model

import "time"

type Customer struct {
	ID         int       `json:"customer_id"`
	Code       string    `json:"customer_code"`
	Name       string    `json:"customer_name"`
	PostalCode string    `json:"postal_code"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Supplier struct {
	ID            int       `json:"supplier_id"`
	Code          string    `json:"supplier_code"`
	Name          string    `json:"supplier_name"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

package domain

import "time"

// Person is a customer of the rental business, individual or company.
type Person struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Document     string    `json:"document"` // CPF or CNPJ
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Street       string    `json:"street,omitempty"`
	Number       string    `json:"number,omitempty"`
	Neighborhood string    `json:"neighborhood,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	ZipCode      string    `json:"zip_code,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Active       bool      `json:"active"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

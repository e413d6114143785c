package models

import (
	"strings"
	"time"
)

type User struct {
	ID        int64      `json:"id" db:"id" example:"1"`
	Name      string     `json:"name" db:"name" example:"Maria Silva"`
	Email     string     `json:"email" db:"email" example:"maria@example.com"`
	Document  string     `json:"document" db:"document" example:"12345678901"` // CPF
	Phone     string     `json:"phone" db:"phone" example:"+5521999990000"`
	BirthDate *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// Address is stored independently and references its owner by id
type Address struct {
	ID           int64  `json:"id" db:"id"`
	UserID       int64  `json:"userId" db:"user_id"`
	Street       string `json:"street" db:"street"`
	Number       string `json:"number" db:"number"`
	Neighborhood string `json:"neighborhood" db:"neighborhood"`
	City         string `json:"city" db:"city"`
	State        string `json:"state" db:"state"`
	ZipCode      string `json:"zipCode" db:"zip_code"`
	Primary      bool   `json:"primary" db:"is_primary"`
}

// ShippingLine formats the address the way it is frozen into orders:
// "street, neighborhood, city, state".
func (a Address) ShippingLine() string {
	return strings.Join([]string{a.Street, a.Neighborhood, a.City, a.State}, ", ")
}

// UserView is a user together with its addresses and masked cards
type UserView struct {
	User
	Addresses []Address  `json:"addresses"`
	Cards     []CardView `json:"cards"`
}

// ShippingAddress picks the primary address, falling back to the first one.
// The boolean is false when the user has no address at all.
func ShippingAddress(addresses []Address) (Address, bool) {
	if len(addresses) == 0 {
		return Address{}, false
	}
	for _, a := range addresses {
		if a.Primary {
			return a, true
		}
	}
	return addresses[0], true
}

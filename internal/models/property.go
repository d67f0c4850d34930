package models

import (
	"net/url"
	"strconv"
)

// Listing types.
const (
	TypeRent = "rent"
	TypeBuy  = "buy"
)

// Property is a listing as returned by the backend.
type Property struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Images      []string `json:"images"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

// PropertyInput is the body of create/update requests.
type PropertyInput struct {
	Title       string   `json:"title" form:"title" validate:"required,notblank"`
	Description string   `json:"description,omitempty" form:"description"`
	Price       float64  `json:"price" form:"price" validate:"finite,gt=0"`
	Location    string   `json:"location" form:"location" validate:"required,notblank"`
	Type        string   `json:"type" form:"type" validate:"required,oneof=rent buy"`
	Images      []string `json:"images,omitempty" form:"images"`
}

// PropertyFilter holds the optional search parameters of GET /properties.
// Zero values are omitted.
type PropertyFilter struct {
	Search   string  `form:"search"`
	MinPrice float64 `form:"minPrice"`
	MaxPrice float64 `form:"maxPrice"`
	Type     string  `form:"type"`
}

// Values encodes the non-zero filter fields as query parameters.
func (f PropertyFilter) Values() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.MinPrice != 0 {
		q.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != 0 {
		q.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	return q
}

// Favorite links a client to a saved property.
type Favorite struct {
	ID        int64    `json:"id"`
	Property  Property `json:"property"`
	Client    *User    `json:"client,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

// ContactMessage is sent to the listing agent of a property.
type ContactMessage struct {
	Name    string `json:"name" form:"name" validate:"required,notblank"`
	Email   string `json:"email" form:"email" validate:"required,email_address"`
	Phone   string `json:"phone,omitempty" form:"phone"`
	Message string `json:"message" form:"message" validate:"required,notblank"`
}

// APIMessage is the generic {success, message} envelope used by the backend.
type APIMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

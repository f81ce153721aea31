package models

import "time"

// Property represents a listing posted by a seller. Listings are immutable
// after creation; sellers remove and repost instead of editing.
type Property struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"sellerId"`
	Type        string    `json:"type"` // e.g. apartment, house, villa
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Size        string    `json:"size"`
	MinPrice    int64     `json:"minPrice"`
	MaxPrice    int64     `json:"maxPrice"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"` // opaque reference supplied by the upload frontend
	CreatedAt   time.Time `json:"createdAt"`
}

// PropertyFilter narrows and pages a property listing query.
type PropertyFilter struct {
	Location string
	Type     string
	Size     string
	MinPrice *int64
	MaxPrice *int64
	SortBy   string
	Order    string
	Page     int
	Limit    int
}

package domain

import "time"

type CatalogItem struct {
	ID          int64
	Kind        ItemKind
	Title       string
	Description string
	Location    string
	ImageURL    string
	PriceCents  int64
	MaxGuests   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

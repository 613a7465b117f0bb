package domain

type ItemKind string

const (
	KindTour       ItemKind = "tour"
	KindHotel      ItemKind = "hotel"
	KindRestaurant ItemKind = "restaurant"
	KindTransport  ItemKind = "transport"
)

// CartLineItem is one purchasable booking intent. Display metadata and the
// unit price are snapshotted when the item is added and never re-fetched.
type CartLineItem struct {
	ID             string   `json:"id"`
	Kind           ItemKind `json:"kind"`
	Title          string   `json:"title"`
	Image          string   `json:"image"`
	UnitPriceCents int64    `json:"unit_price_cents"`
	Quantity       int      `json:"quantity"`
	StartDate      string   `json:"start_date,omitempty"`
	MaxGuests      int      `json:"max_guests,omitempty"`
}

// BookingDetails is the scratch state of the booking details form, persisted
// alongside the cart per owner.
type BookingDetails struct {
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	Adults       int    `json:"adults"`
	Children     int    `json:"children"`
	TourGuide    bool   `json:"tour_guide"`
}

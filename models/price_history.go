package models

// PriceObservation is one (date, price) data point taken from an invoice
// line item.
type PriceObservation struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// PriceHistory tracks the price of one (item, supplier) pair over time.
// It is a derived table: every row can be regenerated from the invoice
// collection, so it is never treated as a source of truth. LookupKey is the
// normalized (lowercase, diacritic-stripped, whitespace-collapsed) composite
// of item name and supplier.
type PriceHistory struct {
	ID           string             `json:"id"`
	LookupKey    string             `json:"lookupKey"`
	ItemName     string             `json:"itemName"`
	Supplier     string             `json:"supplier"`
	Observations []PriceObservation `json:"observations"`
	AveragePrice float64            `json:"averagePrice"`
	MinPrice     float64            `json:"minPrice"`
	MaxPrice     float64            `json:"maxPrice"`
	UpdatedAt    string             `json:"updatedAt"`
}

package models

// ProductTrace is a traceability entry: a photographed product label kept
// for food-safety audits. Like invoices it carries local image payloads and
// optionally remote-hosted URLs.
type ProductTrace struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	LotNumber  string   `json:"lotNumber,omitempty"`
	ExpiryDate string   `json:"expiryDate,omitempty"`
	Supplier   string   `json:"supplier,omitempty"`
	Images     []string `json:"images,omitempty"`
	ImageURLs  []string `json:"imageUrls,omitempty"`
	CreatedAt  string   `json:"createdAt"`
}

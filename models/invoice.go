package models

// InvoiceItem is one line of an invoice. Lines are embedded in the invoice
// row (JSON column locally, jsonb remotely), never stored as their own table.
type InvoiceItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit,omitempty"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
}

// Invoice is a supplier invoice. Images holds raw scanned pages as base64
// payloads and only ever lives locally; ImageURLs point at remote-hosted
// copies and survive backup export.
type Invoice struct {
	ID          string        `json:"id"`
	Supplier    string        `json:"supplier"`
	InvoiceDate string        `json:"invoiceDate"`
	Number      string        `json:"number,omitempty"`
	TotalAmount float64       `json:"totalAmount"`
	Items       []InvoiceItem `json:"items"`
	Images      []string      `json:"images,omitempty"`
	ImageURLs   []string      `json:"imageUrls,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   string        `json:"createdAt"`
}

// HasMedia reports whether the invoice carries any image payloads or
// remote image URLs.
func (i Invoice) HasMedia() bool {
	return len(i.Images) > 0 || len(i.ImageURLs) > 0
}

package models

// OrderItem is one line of a supplier order.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// Order is a supplier purchase order. OrderNumber follows the fixed
// CMD-<year>-<seq> pattern; the sequence is allocated by scanning the union
// of remote and local orders for the year, because a not-yet-synced local
// order can hold the highest sequence.
type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	Supplier    string      `json:"supplier"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
	Notes       string      `json:"notes,omitempty"`
	OrderDate   string      `json:"orderDate"`
	CreatedAt   string      `json:"createdAt"`
}

// SupplierProductMapping links a free-text invoice item name to a canonical
// supplier product reference.
type SupplierProductMapping struct {
	ID          string `json:"id"`
	Supplier    string `json:"supplier"`
	ItemName    string `json:"itemName"`
	ProductRef  string `json:"productRef"`
	ProductName string `json:"productName,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

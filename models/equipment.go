package models

// Equipment is a monitored cold-storage or cooking unit (fridge, freezer,
// fryer) that temperature and oil-change records attach to.
type Equipment struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	MinTemp   float64 `json:"minTemp"`
	MaxTemp   float64 `json:"maxTemp"`
	Location  string  `json:"location,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// TemperatureRecord is a single HACCP temperature reading for one equipment
// unit. Timestamp is RFC 3339; readings are queried by (equipmentId, range).
type TemperatureRecord struct {
	ID          string  `json:"id"`
	EquipmentID string  `json:"equipmentId"`
	Temperature float64 `json:"temperature"`
	Timestamp   string  `json:"timestamp"`
	Compliant   bool    `json:"compliant"`
	Notes       string  `json:"notes,omitempty"`
	RecordedBy  string  `json:"recordedBy,omitempty"`
}

// OilChangeRecord tracks fryer oil replacement for HACCP compliance.
type OilChangeRecord struct {
	ID          string `json:"id"`
	EquipmentID string `json:"equipmentId"`
	Timestamp   string `json:"timestamp"`
	OilType     string `json:"oilType,omitempty"`
	Notes       string `json:"notes,omitempty"`
	ChangedBy   string `json:"changedBy,omitempty"`
}

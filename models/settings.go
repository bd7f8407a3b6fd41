package models

// SettingsID is the fixed identifier of the settings singleton row.
const SettingsID = "default"

// AppSettings is the singleton application settings row.
type AppSettings struct {
	ID                string `json:"id"`
	EstablishmentName string `json:"establishmentName,omitempty"`
	Language          string `json:"language,omitempty"`
	TemperatureUnit   string `json:"temperatureUnit,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

package core

// SettingKey names a shop preference.
type SettingKey string

const (
	SettingDisplayManufacturers SettingKey = "PS_DISPLAY_MANUFACTURERS"
	SettingStockManagement      SettingKey = "PS_STOCK_MANAGEMENT"
)

// Settings reads shop preferences.
type Settings interface {
	Bool(key SettingKey) bool
}

// StaticSettings is a fixed set of preferences, usually loaded from config.
type StaticSettings map[SettingKey]bool

func (s StaticSettings) Bool(key SettingKey) bool {
	return s[key]
}

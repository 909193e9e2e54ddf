package models

import "encoding/json"

// Виды конфигурационных документов-одиночек.
const (
	DocSettings   = "settings"
	DocSiteConfig = "site_config"
)

// SettingsDoc конфигурационный документ сайта. Содержимое непрозрачно
// для сервера и хранится как есть; требование одно — это JSON-объект.
type SettingsDoc struct {
	Kind    string          `json:"-"`
	Payload json.RawMessage `json:"payload"`
}

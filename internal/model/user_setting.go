package model

// UserSetting tenant configuration, one row per device.
// Read-only for the duration of a reconciliation or sweep pass.
type UserSetting struct {
	DeviceID         string  `gorm:"primaryKey;type:varchar(64);column:device_id" json:"device_id"`
	TGBotToken       string  `gorm:"type:varchar(128);column:tg_bot_token" json:"tg_bot_token"`
	TGChatID         string  `gorm:"type:varchar(64);column:tg_chat_id" json:"tg_chat_id"`
	TGAdminID        *string `gorm:"type:varchar(64);column:tg_admin_id" json:"tg_admin_id,omitempty"`
	FBAccessToken    string  `gorm:"type:varchar(512);column:fb_access_token" json:"fb_access_token"`
	AmazonAccessKey  string  `gorm:"type:varchar(128);column:amazon_access_key" json:"amazon_access_key"`
	AmazonSecretKey  string  `gorm:"type:varchar(128);column:amazon_secret_key" json:"amazon_secret_key"`
	AmazonPartnerTag string  `gorm:"type:varchar(64);column:amazon_partner_tag" json:"amazon_partner_tag"`
}

// TableName set name
func (UserSetting) TableName() string {
	return "user_settings"
}

// HasAdmin reports whether an operator chat is configured
func (s *UserSetting) HasAdmin() bool {
	return s.TGAdminID != nil && *s.TGAdminID != "" && s.TGBotToken != ""
}

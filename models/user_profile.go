package models

// UserProfile mirrors display data from the account service so rankings and
// dashboards can render names without a cross-service call per row.
// Kept fresh by workers.ProfileSyncWorker.
type UserProfile struct {
	ID                string  `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID    string  `gorm:"uniqueIndex;not null" json:"external_user_id"`
	Username          string  `gorm:"not null" json:"username"`
	Email             string  `json:"email"`
	DisplayName       *string `json:"display_name,omitempty"`
	AvatarURL         *string `json:"avatar_url,omitempty"`
	PreferredLanguage *string `json:"preferred_language,omitempty"`

	Timestamps
}

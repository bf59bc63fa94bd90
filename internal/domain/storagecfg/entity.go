package storagecfg

import (
	"encoding/json"
	"time"
)

// Config is a user's storage-provider configuration. The credential payload
// is opaque JSON whose keys only the matching provider adapter understands
// (e.g. access_key_id/secret_access_key for S3, account_name/sas_token for
// Azure Blob). Exactly one active config per account is consulted.
type Config struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id;index" json:"user_id"`
	Provider    string    `gorm:"column:provider" json:"provider"`
	Credentials string    `gorm:"column:credentials" json:"-"`
	IsActive    bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Config) TableName() string { return "storage_configs" }

// CredentialsMap decodes the opaque credential payload.
func (c *Config) CredentialsMap() (map[string]string, error) {
	creds := map[string]string{}
	if c.Credentials == "" {
		return creds, nil
	}
	if err := json.Unmarshal([]byte(c.Credentials), &creds); err != nil {
		return nil, err
	}
	return creds, nil
}

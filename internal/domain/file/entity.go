package file

import (
	"encoding/json"
	"time"
)

const (
	KindFile   = "file"
	KindFolder = "folder"
)

// Record is a file's metadata row. It is created by the upload path of the
// dashboard backend; the proxy only ever reads it.
type Record struct {
	ID           string     `gorm:"column:id;primaryKey" json:"id"`
	OwnerID      string     `gorm:"column:owner_id;index" json:"owner_id"`
	Kind         string     `gorm:"column:kind" json:"kind"` // file | folder
	IsPublic     bool       `gorm:"column:is_public" json:"is_public"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	Size         int64      `gorm:"column:size" json:"size"`
	Provider     string     `gorm:"column:provider" json:"provider"`
	Location     string     `gorm:"column:location" json:"-"` // provider-specific JSON, opaque here
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	DeletedAt    *time.Time `gorm:"column:deleted_at" json:"-"`
}

func (Record) TableName() string { return "files" }

// LocationMap decodes the provider-specific location metadata. Only the
// adapter for r.Provider knows what the keys mean.
func (r *Record) LocationMap() (map[string]string, error) {
	loc := map[string]string{}
	if r.Location == "" {
		return loc, nil
	}
	if err := json.Unmarshal([]byte(r.Location), &loc); err != nil {
		return nil, err
	}
	return loc, nil
}

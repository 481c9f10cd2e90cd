package resumes

import "time"

// Resume is a persisted resume record. Content and Preview are derived
// at upload time so listing and re-selecting never re-parses the file.
type Resume struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	Name            string    `json:"name"`
	FileName        string    `json:"fileName"`
	Ext             string    `json:"ext"`
	MimeType        string    `json:"mimeType,omitempty"`
	SizeBytes       int64     `json:"sizeBytes"`
	StorageProvider string    `json:"-"`
	StorageKey      string    `json:"-"`
	Content         string    `json:"content,omitempty"`
	Preview         string    `json:"preview,omitempty"`
	IsDefault       bool      `json:"isDefault"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

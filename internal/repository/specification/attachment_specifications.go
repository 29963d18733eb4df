package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByFolderID struct {
	FolderID uuid.UUID
}

func (s ByFolderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("folder_id = ?", s.FolderID)
}

type ByAttachmentID struct {
	AttachmentID uuid.UUID
}

func (s ByAttachmentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("attachment_id = ?", s.AttachmentID)
}

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// LinkedToOpenAI keeps attachments that were uploaded to the LLM provider.
type LinkedToOpenAI struct{}

func (s LinkedToOpenAI) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("openai_file_id IS NOT NULL AND openai_file_id <> ''")
}

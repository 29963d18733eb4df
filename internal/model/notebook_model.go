package model

import (
	"time"

	"github.com/google/uuid"
)

type Notebook struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId               uuid.UUID `gorm:"type:uuid;not null;index"`
	Title                *string   `gorm:"type:varchar(255)"`
	Summary              *string   `gorm:"type:text"`
	IsArchived           bool      `gorm:"not null;default:false"`
	Color                *string   `gorm:"type:varchar(32)"`
	OpenaiVectorStoreId  *string   `gorm:"type:varchar(255)"`
	VectorStoreExpiresAt *time.Time
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime;index"`
}

func (Notebook) TableName() string {
	return "notebooks"
}

type NotebookFolder struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_notebook_folders_user_name"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_notebook_folders_user_name"`
	Description *string   `gorm:"type:text"`
	Color       *string   `gorm:"type:varchar(32)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (NotebookFolder) TableName() string {
	return "notebook_folders"
}

type NotebookFolderItem struct {
	FolderId   uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_notebook_folder_items_folder"`
	NotebookId uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_notebook_folder_items_notebook"`
	Seq        *int
}

func (NotebookFolderItem) TableName() string {
	return "notebook_folder_items"
}

package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ids are assigned in the application so every dialect behaves the same.

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *User) BeforeCreate(tx *gorm.DB) error                 { assignID(&m.Id); return nil }
func (m *Membership) BeforeCreate(tx *gorm.DB) error           { assignID(&m.Id); return nil }
func (m *Notebook) BeforeCreate(tx *gorm.DB) error             { assignID(&m.Id); return nil }
func (m *NotebookFolder) BeforeCreate(tx *gorm.DB) error       { assignID(&m.Id); return nil }
func (m *Note) BeforeCreate(tx *gorm.DB) error                 { assignID(&m.Id); return nil }
func (m *Attachment) BeforeCreate(tx *gorm.DB) error           { assignID(&m.Id); return nil }
func (m *TranscriptionSession) BeforeCreate(tx *gorm.DB) error { assignID(&m.Id); return nil }
func (m *TranscriptionSegment) BeforeCreate(tx *gorm.DB) error { assignID(&m.Id); return nil }
func (m *Flashcard) BeforeCreate(tx *gorm.DB) error            { assignID(&m.Id); return nil }
func (m *FlashcardFolder) BeforeCreate(tx *gorm.DB) error      { assignID(&m.Id); return nil }
func (m *QuizQuestion) BeforeCreate(tx *gorm.DB) error         { assignID(&m.Id); return nil }
func (m *QuizFolder) BeforeCreate(tx *gorm.DB) error           { assignID(&m.Id); return nil }
func (m *QuizAttempt) BeforeCreate(tx *gorm.DB) error          { assignID(&m.Id); return nil }
func (m *MindMap) BeforeCreate(tx *gorm.DB) error              { assignID(&m.Id); return nil }

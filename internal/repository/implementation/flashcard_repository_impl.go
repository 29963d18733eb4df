package implementation

import (
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/mapper"
	"github.com/iZhuoxx/AI-web/internal/model"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"

	"gorm.io/gorm"
)

type FlashcardRepositoryImpl struct {
	crudRepository[entity.Flashcard, model.Flashcard]
}

func NewFlashcardRepository(db *gorm.DB) contract.FlashcardRepository {
	m := mapper.NewFlashcardMapper()
	return &FlashcardRepositoryImpl{
		crudRepository: crudRepository[entity.Flashcard, model.Flashcard]{db: db, toEntity: m.ToEntity, toModel: m.ToModel},
	}
}

type FlashcardFolderRepositoryImpl struct {
	crudRepository[entity.FlashcardFolder, model.FlashcardFolder]
}

func NewFlashcardFolderRepository(db *gorm.DB) contract.FlashcardFolderRepository {
	m := mapper.NewFlashcardMapper()
	return &FlashcardFolderRepositoryImpl{
		crudRepository: crudRepository[entity.FlashcardFolder, model.FlashcardFolder]{db: db, toEntity: m.FolderToEntity, toModel: m.FolderToModel},
	}
}

package implementation

import (
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/mapper"
	"github.com/iZhuoxx/AI-web/internal/model"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"

	"gorm.io/gorm"
)

type QuizQuestionRepositoryImpl struct {
	crudRepository[entity.QuizQuestion, model.QuizQuestion]
}

func NewQuizQuestionRepository(db *gorm.DB) contract.QuizQuestionRepository {
	m := mapper.NewQuizMapper()
	return &QuizQuestionRepositoryImpl{
		crudRepository: crudRepository[entity.QuizQuestion, model.QuizQuestion]{db: db, toEntity: m.QuestionToEntity, toModel: m.QuestionToModel},
	}
}

type QuizFolderRepositoryImpl struct {
	crudRepository[entity.QuizFolder, model.QuizFolder]
}

func NewQuizFolderRepository(db *gorm.DB) contract.QuizFolderRepository {
	m := mapper.NewQuizMapper()
	return &QuizFolderRepositoryImpl{
		crudRepository: crudRepository[entity.QuizFolder, model.QuizFolder]{db: db, toEntity: m.FolderToEntity, toModel: m.FolderToModel},
	}
}

type QuizAttemptRepositoryImpl struct {
	crudRepository[entity.QuizAttempt, model.QuizAttempt]
}

func NewQuizAttemptRepository(db *gorm.DB) contract.QuizAttemptRepository {
	m := mapper.NewQuizMapper()
	return &QuizAttemptRepositoryImpl{
		crudRepository: crudRepository[entity.QuizAttempt, model.QuizAttempt]{db: db, toEntity: m.AttemptToEntity, toModel: m.AttemptToModel},
	}
}

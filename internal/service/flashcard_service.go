package service

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/aggregate"
	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"
	"github.com/iZhuoxx/AI-web/pkg/events"

	"github.com/google/uuid"
)

type IFlashcardService interface {
	ListCards(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]dto.FlashcardResponse, error)
	CreateCard(ctx context.Context, userId uuid.UUID, req *dto.CreateFlashcardRequest) (*dto.FlashcardResponse, error)
	UpdateCard(ctx context.Context, userId uuid.UUID, req *dto.UpdateFlashcardRequest) (*dto.FlashcardResponse, error)
	DeleteCard(ctx context.Context, userId uuid.UUID, id uuid.UUID) error

	ListFolders(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]*dto.FlashcardFolderResponse, error)
	CreateFolder(ctx context.Context, userId uuid.UUID, req *dto.CreateFlashcardFolderRequest) (*dto.FlashcardFolderResponse, error)
	UpdateFolder(ctx context.Context, userId uuid.UUID, req *dto.UpdateFlashcardFolderRequest) (*dto.FlashcardFolderResponse, error)
	DeleteFolder(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type flashcardService struct {
	uowFactory       unitofwork.RepositoryFactory
	synchronizer     *aggregate.MembershipSynchronizer
	publisherService IPublisherService
}

func NewFlashcardService(
	uowFactory unitofwork.RepositoryFactory,
	synchronizer *aggregate.MembershipSynchronizer,
	publisherService IPublisherService,
) IFlashcardService {
	return &flashcardService{
		uowFactory:       uowFactory,
		synchronizer:     synchronizer,
		publisherService: publisherService,
	}
}

func ownedScope(userId uuid.UUID, notebookId *uuid.UUID, order specification.OrderBy) []specification.Specification {
	specs := []specification.Specification{specification.UserOwnedBy{UserID: userId}}
	if notebookId != nil {
		specs = append(specs, specification.ByNotebookID{NotebookID: *notebookId})
	}
	return append(specs, order)
}

func (s *flashcardService) publishChanged(ctx context.Context, userId, notebookId uuid.UUID) {
	s.publisherService.Publish(ctx, events.New(events.FlashcardsChanged, userId, map[string]interface{}{
		"notebook_id": notebookId.String(),
	}))
}

func (s *flashcardService) ListCards(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]dto.FlashcardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	cards, err := uow.FlashcardRepository().FindAll(ctx, ownedScope(userId, notebookId, specification.OrderBy{Field: "created_at"})...)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		ids[i] = c.Id
	}
	folderIds, err := uow.FolderItemRepository(contract.FlashcardFolderItems).ParentIDsByChildren(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]dto.FlashcardResponse, 0, len(cards))
	for _, c := range cards {
		res = append(res, toFlashcardResponse(c, folderIds[c.Id]))
	}
	return res, nil
}

func (s *flashcardService) findCard(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Flashcard, error) {
	card, err := uow.FlashcardRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apperror.NotFound("Flashcard not found")
	}
	return card, nil
}

func (s *flashcardService) CreateCard(ctx context.Context, userId uuid.UUID, req *dto.CreateFlashcardRequest) (*dto.FlashcardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if _, err := findNotebook(ctx, uow, userId, req.NotebookId, false); err != nil {
		return nil, err
	}
	folderIds, err := s.synchronizer.Validate(ctx, uow, aggregate.FoldersOfFlashcard, aggregate.MembershipRequest{
		UserID:     userId,
		NotebookID: &req.NotebookId,
		Ids:        req.FolderIds,
	})
	if err != nil {
		return nil, err
	}

	card := &entity.Flashcard{
		UserId:     userId,
		NotebookId: req.NotebookId,
		Question:   req.Question,
		Answer:     req.Answer,
		Meta:       req.Meta,
	}
	if err := uow.FlashcardRepository().Create(ctx, card); err != nil {
		return nil, apperror.FromStorage(err)
	}
	if _, err := s.synchronizer.Replace(ctx, uow, aggregate.FoldersOfFlashcard, aggregate.MembershipRequest{
		OwnerID:    card.Id,
		UserID:     userId,
		NotebookID: &card.NotebookId,
		Ids:        folderIds,
	}); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, card.NotebookId)
	res := toFlashcardResponse(card, folderIds)
	return &res, nil
}

func (s *flashcardService) UpdateCard(ctx context.Context, userId uuid.UUID, req *dto.UpdateFlashcardRequest) (*dto.FlashcardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	card, err := s.findCard(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	var folderIds []uuid.UUID
	if req.FolderIds != nil {
		folderIds, err = s.synchronizer.Validate(ctx, uow, aggregate.FoldersOfFlashcard, aggregate.MembershipRequest{
			OwnerID:    card.Id,
			UserID:     userId,
			NotebookID: &card.NotebookId,
			Ids:        *req.FolderIds,
		})
		if err != nil {
			return nil, err
		}
	}

	if req.Question != nil {
		card.Question = *req.Question
	}
	if req.Answer != nil {
		card.Answer = *req.Answer
	}
	if req.Meta != nil {
		card.Meta = req.Meta
	}
	if err := uow.FlashcardRepository().Update(ctx, card); err != nil {
		return nil, apperror.FromStorage(err)
	}

	if req.FolderIds != nil {
		if _, err := s.synchronizer.Replace(ctx, uow, aggregate.FoldersOfFlashcard, aggregate.MembershipRequest{
			OwnerID:    card.Id,
			UserID:     userId,
			NotebookID: &card.NotebookId,
			Ids:        folderIds,
		}); err != nil {
			return nil, err
		}
	} else {
		folderIds, err = uow.FolderItemRepository(contract.FlashcardFolderItems).ParentIDs(ctx, card.Id)
		if err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, card.NotebookId)
	res := toFlashcardResponse(card, folderIds)
	return &res, nil
}

func (s *flashcardService) DeleteCard(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	card, err := s.findCard(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if _, err := aggregate.CascadeDelete(ctx, uow, "flashcards", []uuid.UUID{card.Id}); err != nil {
		return apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, card.NotebookId)
	return nil
}

func (s *flashcardService) ListFolders(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]*dto.FlashcardFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	folders, err := uow.FlashcardFolderRepository().FindAll(ctx, ownedScope(userId, notebookId, specification.OrderBy{Field: "created_at", Desc: true})...)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(folders))
	for i, f := range folders {
		ids[i] = f.Id
	}
	members, err := uow.FolderItemRepository(contract.FlashcardFolderItems).ChildIDsByParents(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FlashcardFolderResponse, 0, len(folders))
	for _, f := range folders {
		res = append(res, toFlashcardFolderResponse(f, members[f.Id]))
	}
	return res, nil
}

func (s *flashcardService) findFolder(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.FlashcardFolder, error) {
	folder, err := uow.FlashcardFolderRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, apperror.NotFound("Flashcard folder not found")
	}
	return folder, nil
}

func (s *flashcardService) CreateFolder(ctx context.Context, userId uuid.UUID, req *dto.CreateFlashcardFolderRequest) (*dto.FlashcardFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if _, err := findNotebook(ctx, uow, userId, req.NotebookId, false); err != nil {
		return nil, err
	}
	cardIds, err := s.synchronizer.Validate(ctx, uow, aggregate.FlashcardsOfFolder, aggregate.MembershipRequest{
		UserID:     userId,
		NotebookID: &req.NotebookId,
		Ids:        req.FlashcardIds,
	})
	if err != nil {
		return nil, err
	}

	folder := &entity.FlashcardFolder{
		UserId:      userId,
		NotebookId:  req.NotebookId,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := uow.FlashcardFolderRepository().Create(ctx, folder); err != nil {
		return nil, folderNameError(err)
	}
	if _, err := s.synchronizer.Replace(ctx, uow, aggregate.FlashcardsOfFolder, aggregate.MembershipRequest{
		OwnerID:    folder.Id,
		UserID:     userId,
		NotebookID: &folder.NotebookId,
		Ids:        cardIds,
	}); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, folder.NotebookId)
	return toFlashcardFolderResponse(folder, cardIds), nil
}

func (s *flashcardService) UpdateFolder(ctx context.Context, userId uuid.UUID, req *dto.UpdateFlashcardFolderRequest) (*dto.FlashcardFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	folder, err := s.findFolder(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	var cardIds []uuid.UUID
	if req.FlashcardIds != nil {
		cardIds, err = s.synchronizer.Validate(ctx, uow, aggregate.FlashcardsOfFolder, aggregate.MembershipRequest{
			OwnerID:    folder.Id,
			UserID:     userId,
			NotebookID: &folder.NotebookId,
			Ids:        *req.FlashcardIds,
		})
		if err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		folder.Name = *req.Name
	}
	if req.Description != nil {
		folder.Description = req.Description
	}
	if err := uow.FlashcardFolderRepository().Update(ctx, folder); err != nil {
		return nil, folderNameError(err)
	}

	if req.FlashcardIds != nil {
		if _, err := s.synchronizer.Replace(ctx, uow, aggregate.FlashcardsOfFolder, aggregate.MembershipRequest{
			OwnerID:    folder.Id,
			UserID:     userId,
			NotebookID: &folder.NotebookId,
			Ids:        cardIds,
		}); err != nil {
			return nil, err
		}
	} else {
		cardIds, err = uow.FolderItemRepository(contract.FlashcardFolderItems).ChildIDs(ctx, folder.Id)
		if err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, folder.NotebookId)
	return toFlashcardFolderResponse(folder, cardIds), nil
}

// DeleteFolder keeps the cards; only the membership rows go with the folder.
func (s *flashcardService) DeleteFolder(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	folder, err := s.findFolder(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if _, err := aggregate.CascadeDelete(ctx, uow, "flashcard_folders", []uuid.UUID{folder.Id}); err != nil {
		return apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, folder.NotebookId)
	return nil
}

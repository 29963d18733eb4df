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

type INotebookFolderService interface {
	List(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]*dto.NotebookFolderResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.NotebookFolderRequest) (*dto.NotebookFolderResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookFolderRequest) (*dto.NotebookFolderResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type notebookFolderService struct {
	uowFactory       unitofwork.RepositoryFactory
	synchronizer     *aggregate.MembershipSynchronizer
	publisherService IPublisherService
}

func NewNotebookFolderService(
	uowFactory unitofwork.RepositoryFactory,
	synchronizer *aggregate.MembershipSynchronizer,
	publisherService IPublisherService,
) INotebookFolderService {
	return &notebookFolderService{
		uowFactory:       uowFactory,
		synchronizer:     synchronizer,
		publisherService: publisherService,
	}
}

// folderNameError turns the per-user unique index into a client error.
func folderNameError(err error) error {
	if apperror.IsUniqueViolation(err) {
		return apperror.Validation("folder name already exists")
	}
	return apperror.FromStorage(err)
}

func (s *notebookFolderService) List(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]*dto.NotebookFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items := uow.FolderItemRepository(contract.NotebookFolderItems)

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if notebookId != nil {
		folderIds, err := items.ParentIDs(ctx, *notebookId)
		if err != nil {
			return nil, err
		}
		if len(folderIds) == 0 {
			return []*dto.NotebookFolderResponse{}, nil
		}
		specs = append(specs, specification.ByIDs{IDs: folderIds})
	}

	folders, err := uow.NotebookFolderRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(folders))
	for i, f := range folders {
		ids[i] = f.Id
	}
	members, err := items.ChildIDsByParents(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NotebookFolderResponse, 0, len(folders))
	for _, f := range folders {
		res = append(res, toNotebookFolderResponse(f, members[f.Id]))
	}
	return res, nil
}

func (s *notebookFolderService) Create(ctx context.Context, userId uuid.UUID, req *dto.NotebookFolderRequest) (*dto.NotebookFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	var requested []uuid.UUID
	if req.NotebookIds != nil {
		requested = *req.NotebookIds
	}
	notebookIds, err := s.synchronizer.Validate(ctx, uow, aggregate.NotebooksOfFolder, aggregate.MembershipRequest{
		UserID: userId,
		Ids:    requested,
	})
	if err != nil {
		return nil, err
	}

	folder := &entity.NotebookFolder{
		UserId:      userId,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
	if err := uow.NotebookFolderRepository().Create(ctx, folder); err != nil {
		return nil, folderNameError(err)
	}
	if _, err := s.synchronizer.Replace(ctx, uow, aggregate.NotebooksOfFolder, aggregate.MembershipRequest{
		OwnerID: folder.Id,
		UserID:  userId,
		Ids:     notebookIds,
	}); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publisherService.Publish(ctx, events.New(events.FolderCreated, userId, map[string]interface{}{
		"folder_id": folder.Id.String(),
	}))
	return toNotebookFolderResponse(folder, notebookIds), nil
}

func (s *notebookFolderService) findFolder(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.NotebookFolder, error) {
	folder, err := uow.NotebookFolderRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, apperror.NotFound("Notebook folder not found")
	}
	return folder, nil
}

func (s *notebookFolderService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookFolderRequest) (*dto.NotebookFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	folder, err := s.findFolder(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	var notebookIds []uuid.UUID
	if req.NotebookIds != nil {
		notebookIds, err = s.synchronizer.Validate(ctx, uow, aggregate.NotebooksOfFolder, aggregate.MembershipRequest{
			OwnerID: folder.Id,
			UserID:  userId,
			Ids:     *req.NotebookIds,
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
	if req.Color != nil {
		folder.Color = req.Color
	}
	if err := uow.NotebookFolderRepository().Update(ctx, folder); err != nil {
		return nil, folderNameError(err)
	}

	if req.NotebookIds != nil {
		if _, err := s.synchronizer.Replace(ctx, uow, aggregate.NotebooksOfFolder, aggregate.MembershipRequest{
			OwnerID: folder.Id,
			UserID:  userId,
			Ids:     notebookIds,
		}); err != nil {
			return nil, err
		}
	} else {
		notebookIds, err = uow.FolderItemRepository(contract.NotebookFolderItems).ChildIDs(ctx, folder.Id)
		if err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publisherService.Publish(ctx, events.New(events.FolderUpdated, userId, map[string]interface{}{
		"folder_id": folder.Id.String(),
	}))
	return toNotebookFolderResponse(folder, notebookIds), nil
}

// Delete removes the folder and its membership rows; the notebooks stay.
func (s *notebookFolderService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	folder, err := s.findFolder(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if _, err := aggregate.CascadeDelete(ctx, uow, "notebook_folders", []uuid.UUID{folder.Id}); err != nil {
		return apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.FromStorage(err)
	}

	s.publisherService.Publish(ctx, events.New(events.FolderDeleted, userId, map[string]interface{}{
		"folder_id": folder.Id.String(),
	}))
	return nil
}

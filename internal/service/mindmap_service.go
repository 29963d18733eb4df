package service

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"
	"github.com/iZhuoxx/AI-web/pkg/events"

	"github.com/google/uuid"
)

type IMindMapService interface {
	List(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]*dto.MindMapResponse, error)
	Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.MindMapResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMindMapRequest) (*dto.MindMapResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateMindMapRequest) (*dto.MindMapResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type mindMapService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewMindMapService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService) IMindMapService {
	return &mindMapService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

func (s *mindMapService) publishChanged(ctx context.Context, userId, notebookId uuid.UUID) {
	s.publisherService.Publish(ctx, events.New(events.MindMapsChanged, userId, map[string]interface{}{
		"notebook_id": notebookId.String(),
	}))
}

func (s *mindMapService) findMindMap(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID, lock bool) (*entity.MindMap, error) {
	specs := []specification.Specification{
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	}
	if lock {
		specs = append(specs, specification.ForUpdate{})
	}
	mindMap, err := uow.MindMapRepository().FindOne(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if mindMap == nil {
		return nil, apperror.NotFound("Mind map not found")
	}
	return mindMap, nil
}

func (s *mindMapService) List(ctx context.Context, userId uuid.UUID, notebookId *uuid.UUID) ([]*dto.MindMapResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	mindMaps, err := uow.MindMapRepository().FindAll(ctx, ownedScope(userId, notebookId, specification.OrderBy{Field: "updated_at", Desc: true})...)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.MindMapResponse, 0, len(mindMaps))
	for _, m := range mindMaps {
		res = append(res, toMindMapResponse(m))
	}
	return res, nil
}

func (s *mindMapService) Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.MindMapResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	mindMap, err := s.findMindMap(ctx, uow, userId, id, false)
	if err != nil {
		return nil, err
	}
	return toMindMapResponse(mindMap), nil
}

func (s *mindMapService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMindMapRequest) (*dto.MindMapResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if _, err := findNotebook(ctx, uow, userId, req.NotebookId, false); err != nil {
		return nil, err
	}

	var data entity.MindMapData
	if req.Data != nil {
		data = *req.Data
	}
	mindMap := &entity.MindMap{
		Id:         uuid.New(),
		UserId:     userId,
		NotebookId: req.NotebookId,
		Title:      req.Title,
	}
	mindMap.Data = data.Normalize(mindMap.Id.String(), req.Title)
	if err := uow.MindMapRepository().Create(ctx, mindMap); err != nil {
		return nil, apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, mindMap.NotebookId)
	return toMindMapResponse(mindMap), nil
}

func (s *mindMapService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateMindMapRequest) (*dto.MindMapResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	mindMap, err := s.findMindMap(ctx, uow, userId, req.Id, true)
	if err != nil {
		return nil, err
	}
	if req.NotebookId != nil && *req.NotebookId != mindMap.NotebookId {
		if _, err := findNotebook(ctx, uow, userId, *req.NotebookId, false); err != nil {
			return nil, err
		}
		mindMap.NotebookId = *req.NotebookId
	}
	if req.Title != nil {
		mindMap.Title = *req.Title
	}
	if req.Data != nil {
		mindMap.Data = req.Data.Normalize(mindMap.Id.String(), mindMap.Title)
	}
	if err := uow.MindMapRepository().Update(ctx, mindMap); err != nil {
		return nil, apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, mindMap.NotebookId)
	return toMindMapResponse(mindMap), nil
}

func (s *mindMapService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	mindMap, err := s.findMindMap(ctx, uow, userId, id, true)
	if err != nil {
		return err
	}
	if err := uow.MindMapRepository().Delete(ctx, mindMap.Id); err != nil {
		return apperror.FromStorage(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.FromStorage(err)
	}

	s.publishChanged(ctx, userId, mindMap.NotebookId)
	return nil
}

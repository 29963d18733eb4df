package implementation

import (
	"context"

	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/mapper"
	"github.com/iZhuoxx/AI-web/internal/model"
	"github.com/iZhuoxx/AI-web/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	crudRepository[entity.User, model.User]
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	m := mapper.NewUserMapper()
	return &UserRepositoryImpl{
		crudRepository: crudRepository[entity.User, model.User]{db: db, toEntity: m.ToEntity, toModel: m.ToModel},
		mapper:         m,
	}
}

func (r *UserRepositoryImpl) CreateMembership(ctx context.Context, membership *entity.Membership) error {
	m := r.mapper.MembershipToModel(membership)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*membership = *r.mapper.MembershipToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindMemberships(ctx context.Context, userId uuid.UUID) ([]*entity.Membership, error) {
	var models []*model.Membership
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).Order("started_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MembershipsToEntities(models), nil
}

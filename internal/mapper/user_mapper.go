package mapper

import (
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) MembershipToEntity(ms *model.Membership) *entity.Membership {
	if ms == nil {
		return nil
	}
	return &entity.Membership{
		Id:        ms.Id,
		UserId:    ms.UserId,
		Plan:      ms.Plan,
		Status:    entity.MembershipStatus(ms.Status),
		StartedAt: ms.StartedAt,
		EndsAt:    ms.EndsAt,
	}
}

func (m *UserMapper) MembershipToModel(ms *entity.Membership) *model.Membership {
	if ms == nil {
		return nil
	}
	return &model.Membership{
		Id:        ms.Id,
		UserId:    ms.UserId,
		Plan:      ms.Plan,
		Status:    string(ms.Status),
		StartedAt: ms.StartedAt,
		EndsAt:    ms.EndsAt,
	}
}

func (m *UserMapper) MembershipsToEntities(items []*model.Membership) []*entity.Membership {
	res := make([]*entity.Membership, 0, len(items))
	for _, it := range items {
		res = append(res, m.MembershipToEntity(it))
	}
	return res
}

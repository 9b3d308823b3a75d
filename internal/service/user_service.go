package service

import (
	"context"

	"github.com/RakhimovY/AIChat/internal/dto"
	"github.com/RakhimovY/AIChat/internal/entity"
	"github.com/RakhimovY/AIChat/internal/repository/specification"
	"github.com/RakhimovY/AIChat/internal/repository/unitofwork"
)

type IUserService interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetProfile(ctx context.Context, email string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, email string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, email string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Country != "" {
		country := req.Country
		user.Country = &country
	}
	if req.Language != "" {
		language := req.Language
		user.Language = &language
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	resp := userToResponse(user)
	return &resp, nil
}

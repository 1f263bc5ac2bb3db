package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService covers the admin-side user management operations.
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

type CreateUserReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserReq struct {
	Role     *string `json:"role"`
	Disabled *bool   `json:"disabled"`
}

func validRole(role string) bool {
	switch model.UserRole(role) {
	case model.Student, model.Instructor, model.Admin:
		return true
	}
	return false
}

// CreateUser registers an account with an explicit role.
func (s *UserService) CreateUser(req CreateUserReq) (*model.User, error) {
	if !validRole(req.Role) {
		return nil, util.NewValidationError("unknown role: " + req.Role)
	}

	_, err := s.UserRepo.FindByEmail(req.Email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     model.UserRole(req.Role),
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(userID uint, req UpdateUserReq) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	if req.Role != nil {
		if !validRole(*req.Role) {
			return nil, util.NewValidationError("unknown role: " + *req.Role)
		}
		user.Role = model.UserRole(*req.Role)
	}
	if req.Disabled != nil {
		user.Disabled = *req.Disabled
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(page, limit int, role string) ([]model.User, int64, error) {
	return s.UserRepo.List(page, limit, role)
}

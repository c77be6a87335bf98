package service

import (
	"context"

	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
	"go-societe-admin/pkg/optional"
	"go-societe-admin/pkg/tokenstore"
	"go-societe-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminService manages accounts holding the admin role.
type AdminService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	Create(ctx context.Context, req *CreateAdminRequest, actorID string) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateAdminRequest, actorID string) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID, callerID string) error
}

// CreateAdminRequest creates an administrator; societe_id is optional and
// can be assigned later from the societe side.
type CreateAdminRequest struct {
	Name      string     `json:"name" validate:"required,max=255"`
	Email     string     `json:"email" validate:"required,email,max=255"`
	Password  string     `json:"password" validate:"required,min=8"`
	Telephone *string    `json:"telephone" validate:"omitempty,max=30"`
	SocieteID *uuid.UUID `json:"societe_id"`
	IsActive  *bool      `json:"is_active"`
}

type UpdateAdminRequest struct {
	Name      *string                   `json:"name" validate:"omitnil,min=1,max=255"`
	Email     *string                   `json:"email" validate:"omitnil,email,max=255"`
	Password  *string                   `json:"password" validate:"omitnil,min=8"`
	Telephone optional.Value[string]    `json:"telephone" validate:"omitempty,max=30"`
	SocieteID optional.Value[uuid.UUID] `json:"societe_id"`
	IsActive  *bool                     `json:"is_active"`
}

type adminService struct {
	*userService
}

// NewAdminService shares storage and assignment checks with the user service.
func NewAdminService(
	db *gorm.DB,
	users repository.UserRepository,
	societes repository.SocieteRepository,
	roles *RoleRegistry,
	assignment *AdminAssignment,
	tokens tokenstore.Store,
	events Publisher,
	log *logrus.Logger,
) AdminService {
	return &adminService{userService: newUserService(db, users, societes, roles, assignment, tokens, events, log)}
}

func (s *adminService) List(ctx context.Context) ([]model.User, error) {
	admins, err := s.users.FindByRole(ctx, s.roles.ID(model.RoleAdmin))
	if err != nil {
		return nil, unexpected(s.log, "list admins", err)
	}
	return admins, nil
}

func (s *adminService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, unexpected(s.log, "find admin", err)
	}
	if !s.roles.Is(user.RoleID, model.RoleAdmin) {
		return nil, ErrAdminNotFound
	}
	return user, nil
}

func (s *adminService) Create(ctx context.Context, req *CreateAdminRequest, actorID string) (*model.User, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	admin := &model.User{
		Name:      req.Name,
		Email:     req.Email,
		Telephone: req.Telephone,
		RoleID:    s.roles.ID(model.RoleAdmin),
		SocieteID: req.SocieteID,
		IsActive:  true,
	}
	if req.IsActive != nil {
		admin.IsActive = *req.IsActive
	}
	return s.create(ctx, admin, req.Password, actorID)
}

func (s *adminService) Update(ctx context.Context, id uuid.UUID, req *UpdateAdminRequest, actorID string) (*model.User, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.update(ctx, id, userPatch{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Telephone: req.Telephone,
		SocieteID: req.SocieteID,
		IsActive:  req.IsActive,
	}, model.RoleAdmin, actorID)
}

func (s *adminService) Delete(ctx context.Context, id uuid.UUID, callerID string) error {
	return s.delete(ctx, id, model.RoleAdmin, callerID)
}

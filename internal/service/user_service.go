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

type UserService interface {
	List(ctx context.Context, page, perPage int) ([]model.User, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	Create(ctx context.Context, req *CreateUserRequest, actorID string) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest, actorID string) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID, callerID string) error
}

type CreateUserRequest struct {
	Name      string     `json:"name" validate:"required,max=255"`
	Email     string     `json:"email" validate:"required,email,max=255"`
	Password  string     `json:"password" validate:"required,min=8"`
	Telephone *string    `json:"telephone" validate:"omitempty,max=20"`
	RoleID    uint       `json:"role_id" validate:"required"`
	SocieteID *uuid.UUID `json:"societe_id"`
	IsActive  *bool      `json:"is_active"`
}

// UpdateUserRequest is a partial update; societe_id sent as null clears it.
type UpdateUserRequest struct {
	Name      *string                   `json:"name" validate:"omitnil,min=1,max=255"`
	Email     *string                   `json:"email" validate:"omitnil,email,max=255"`
	Password  *string                   `json:"password" validate:"omitnil,min=8"`
	Telephone optional.Value[string]    `json:"telephone" validate:"omitempty,max=20"`
	RoleID    *uint                     `json:"role_id"`
	SocieteID optional.Value[uuid.UUID] `json:"societe_id"`
	IsActive  *bool                     `json:"is_active"`
}

func (r *UpdateUserRequest) patch() userPatch {
	return userPatch{
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		Telephone: r.Telephone,
		RoleID:    r.RoleID,
		SocieteID: r.SocieteID,
		IsActive:  r.IsActive,
	}
}

// userPatch is the validated, role-agnostic form of a user update.
type userPatch struct {
	Name      *string
	Email     *string
	Password  *string
	Telephone optional.Value[string]
	RoleID    *uint
	SocieteID optional.Value[uuid.UUID]
	IsActive  *bool
}

type userService struct {
	db         *gorm.DB
	users      repository.UserRepository
	societes   repository.SocieteRepository
	roles      *RoleRegistry
	assignment *AdminAssignment
	tokens     tokenstore.Store
	events     Publisher
	log        *logrus.Logger
}

func NewUserService(
	db *gorm.DB,
	users repository.UserRepository,
	societes repository.SocieteRepository,
	roles *RoleRegistry,
	assignment *AdminAssignment,
	tokens tokenstore.Store,
	events Publisher,
	log *logrus.Logger,
) UserService {
	return newUserService(db, users, societes, roles, assignment, tokens, events, log)
}

func newUserService(
	db *gorm.DB,
	users repository.UserRepository,
	societes repository.SocieteRepository,
	roles *RoleRegistry,
	assignment *AdminAssignment,
	tokens tokenstore.Store,
	events Publisher,
	log *logrus.Logger,
) *userService {
	return &userService{
		db:         db,
		users:      users,
		societes:   societes,
		roles:      roles,
		assignment: assignment,
		tokens:     tokens,
		events:     events,
		log:        log,
	}
}

func (s *userService) List(ctx context.Context, page, perPage int) ([]model.User, int64, error) {
	users, total, err := s.users.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, unexpected(s.log, "list users", err)
	}
	return users, total, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, unexpected(s.log, "find user", err)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, req *CreateUserRequest, actorID string) (*model.User, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user := &model.User{
		Name:      req.Name,
		Email:     req.Email,
		Telephone: req.Telephone,
		RoleID:    req.RoleID,
		SocieteID: req.SocieteID,
		IsActive:  true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	return s.create(ctx, user, req.Password, actorID)
}

// create inserts user after the role, societe and admin-slot checks.
func (s *userService) create(ctx context.Context, user *model.User, password, actorID string) (*model.User, error) {
	user.CreatedBy = actorID
	user.UpdatedBy = actorID
	if err := user.SetPassword(password); err != nil {
		return nil, unexpected(s.log, "hash password", err)
	}

	var (
		created *model.User
		events  eventBuffer
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		if !s.roles.Known(user.RoleID) {
			return ErrUnknownRole
		}
		if err := s.ensureEmailFree(ctx, users, user.Email, nil); err != nil {
			return err
		}
		if err := s.ensureSocieteExists(ctx, s.societes.WithTx(tx), user.SocieteID); err != nil {
			return err
		}
		if err := s.assignment.CheckSlot(ctx, users, user.RoleID, user.SocieteID, nil); err != nil {
			return err
		}
		if err := users.Create(ctx, user); err != nil {
			return classifyWrite(err)
		}

		s.assignmentEvents(&events, model.User{}, *user)

		var err error
		created, err = users.FindByID(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, unexpected(s.log, "create user", err)
	}

	events.flush(s.events)
	return created, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest, actorID string) (*model.User, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.update(ctx, id, req.patch(), "", actorID)
}

// update applies p to the user. When onlyRole is set, users holding another
// role are reported as not found.
func (s *userService) update(ctx context.Context, id uuid.UUID, p userPatch, onlyRole model.RoleName, actorID string) (*model.User, error) {
	var (
		updated *model.User
		events  eventBuffer
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		user, err := s.lockUser(ctx, users, id, onlyRole)
		if err != nil {
			return err
		}
		before := *user

		// Effective role and societe: the requested value when the key was
		// sent, the stored one otherwise.
		roleID := user.RoleID
		if p.RoleID != nil {
			if !s.roles.Known(*p.RoleID) {
				return ErrUnknownRole
			}
			roleID = *p.RoleID
		}
		societeID := user.SocieteID
		if p.SocieteID.Set {
			societeID = p.SocieteID.Ptr
			if err := s.ensureSocieteExists(ctx, s.societes.WithTx(tx), societeID); err != nil {
				return err
			}
		}

		if p.Email != nil && *p.Email != user.Email {
			if err := s.ensureEmailFree(ctx, users, *p.Email, &user.ID); err != nil {
				return err
			}
			user.Email = *p.Email
		}
		if err := s.assignment.CheckSlot(ctx, users, roleID, societeID, &user.ID); err != nil {
			return err
		}

		user.RoleID = roleID
		user.SocieteID = societeID
		if p.Name != nil {
			user.Name = *p.Name
		}
		if p.Telephone.Set {
			user.Telephone = p.Telephone.Ptr
		}
		if p.IsActive != nil {
			user.IsActive = *p.IsActive
		}
		if p.Password != nil {
			if err := user.SetPassword(*p.Password); err != nil {
				return err
			}
		}
		user.UpdatedBy = actorID

		if err := users.Update(ctx, user); err != nil {
			return classifyWrite(err)
		}

		s.assignmentEvents(&events, before, *user)

		updated, err = users.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, unexpected(s.log, "update user", err)
	}

	events.flush(s.events)
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID, callerID string) error {
	return s.delete(ctx, id, "", callerID)
}

func (s *userService) delete(ctx context.Context, id uuid.UUID, onlyRole model.RoleName, callerID string) error {
	var deleted *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		user, err := s.lockUser(ctx, users, id, onlyRole)
		if err != nil {
			return err
		}
		if user.ID.String() == callerID {
			return ErrSelfDelete
		}
		if err := users.Delete(ctx, id); err != nil {
			return classifyWrite(err)
		}
		deleted = user
		return nil
	})
	if err != nil {
		return unexpected(s.log, "delete user", err)
	}

	if err := s.tokens.RevokeAll(ctx, id); err != nil {
		s.log.WithError(err).WithField("user_id", id).Warn("failed to revoke tokens of deleted user")
	}
	s.events.Publish(EventUserDeleted, map[string]interface{}{"id": deleted.ID, "societe_id": deleted.SocieteID})
	return nil
}

func (s *userService) lockUser(ctx context.Context, users repository.UserRepository, id uuid.UUID, onlyRole model.RoleName) (*model.User, error) {
	notFound := ErrUserNotFound
	if onlyRole == model.RoleAdmin {
		notFound = ErrAdminNotFound
	}

	user, err := users.FindByIDForUpdate(ctx, id)
	if repository.IsNotFound(err) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	if onlyRole != "" && !s.roles.Is(user.RoleID, onlyRole) {
		return nil, notFound
	}
	return user, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, users repository.UserRepository, email string, exclude *uuid.UUID) error {
	taken, err := users.EmailTaken(ctx, email, exclude)
	if err != nil {
		return err
	}
	if taken {
		return ErrUserEmailTaken
	}
	return nil
}

func (s *userService) ensureSocieteExists(ctx context.Context, societes repository.SocieteRepository, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := societes.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownSociete
	}
	return nil
}

// assignmentEvents records admin.detached / admin.assigned for a change of
// an administrator's pairing between before and after.
func (s *userService) assignmentEvents(events *eventBuffer, before, after model.User) {
	wasPaired := before.SocieteID != nil && s.roles.Is(before.RoleID, model.RoleAdmin)
	isPaired := after.SocieteID != nil && s.roles.Is(after.RoleID, model.RoleAdmin)
	moved := wasPaired && isPaired && *before.SocieteID != *after.SocieteID

	if wasPaired && (!isPaired || moved) {
		events.add(EventAdminDetached, AssignmentEvent{AdminID: before.ID, SocieteID: *before.SocieteID})
	}
	if isPaired && (!wasPaired || moved) {
		events.add(EventAdminAssigned, AssignmentEvent{AdminID: after.ID, SocieteID: *after.SocieteID})
	}
}

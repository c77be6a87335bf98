package service

import (
	"context"

	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AdminAssignment keeps the admin/societe pairing consistent: a societe has
// at most one administrator and an administrator belongs to at most one
// societe. Every method expects repositories bound to the caller's
// transaction.
type AdminAssignment struct {
	roles *RoleRegistry
	log   *logrus.Logger
}

func NewAdminAssignment(roles *RoleRegistry, log *logrus.Logger) *AdminAssignment {
	return &AdminAssignment{roles: roles, log: log}
}

// Reassignment reports which users changed societe during Reassign.
type Reassignment struct {
	Detached *uuid.UUID
	Attached *uuid.UUID
}

// LockAdmin loads and row-locks the user, failing with a validation error
// when it does not exist or is not an administrator.
func (a *AdminAssignment) LockAdmin(ctx context.Context, users repository.UserRepository, id uuid.UUID) (*model.User, error) {
	user, err := users.FindByIDForUpdate(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrNotAdministrator
	}
	if err != nil {
		return nil, err
	}
	if !a.roles.Is(user.RoleID, model.RoleAdmin) {
		return nil, ErrNotAdministrator
	}
	return user, nil
}

// LockFreeAdmin is LockAdmin plus the requirement that the administrator is
// not attached to any societe yet.
func (a *AdminAssignment) LockFreeAdmin(ctx context.Context, users repository.UserRepository, id uuid.UUID) (*model.User, error) {
	admin, err := a.LockAdmin(ctx, users, id)
	if err != nil {
		return nil, err
	}
	if admin.SocieteID != nil {
		return nil, ErrAdminAssignedElsewhere
	}
	return admin, nil
}

// CheckSlot fails when roleID is the admin role and societeID already has an
// administrator other than exclude. Non-admin roles and a nil societe always
// pass.
func (a *AdminAssignment) CheckSlot(ctx context.Context, users repository.UserRepository, roleID uint, societeID *uuid.UUID, exclude *uuid.UUID) error {
	if societeID == nil || !a.roles.Is(roleID, model.RoleAdmin) {
		return nil
	}
	taken, err := users.SocieteHasAdmin(ctx, a.roles.ID(model.RoleAdmin), *societeID, exclude)
	if err != nil {
		return err
	}
	if taken {
		return ErrSocieteHasAdmin
	}
	return nil
}

// Attach points admin at societeID with a compare-and-set, so a concurrent
// claim by another societe surfaces as a conflict instead of being
// overwritten.
func (a *AdminAssignment) Attach(ctx context.Context, users repository.UserRepository, admin *model.User, societeID uuid.UUID) error {
	ok, err := users.AttachSociete(ctx, admin.ID, societeID)
	if err != nil {
		return classifyWrite(err)
	}
	if !ok {
		return ErrAdminAssignedElsewhere
	}
	admin.SocieteID = &societeID
	a.log.WithFields(logrus.Fields{"admin_id": admin.ID, "societe_id": societeID}).Info("administrator attached")
	return nil
}

// Reassign applies an admin_id change to a societe. A nil adminID detaches
// the current administrator; otherwise the current one (if different) is
// detached before the new one is attached.
func (a *AdminAssignment) Reassign(ctx context.Context, users repository.UserRepository, societeID uuid.UUID, adminID *uuid.UUID) (Reassignment, error) {
	var result Reassignment

	current, err := users.FindSocieteAdmin(ctx, a.roles.ID(model.RoleAdmin), societeID)
	if err != nil {
		return result, err
	}

	if adminID == nil {
		if current != nil {
			if err := a.detach(ctx, users, current.ID, societeID); err != nil {
				return result, err
			}
			result.Detached = &current.ID
		}
		return result, nil
	}

	next, err := a.LockAdmin(ctx, users, *adminID)
	if err != nil {
		return result, err
	}
	if next.SocieteID != nil && *next.SocieteID != societeID {
		return result, ErrAdminAssignedElsewhere
	}

	if current != nil && current.ID != next.ID {
		if err := a.detach(ctx, users, current.ID, societeID); err != nil {
			return result, err
		}
		result.Detached = &current.ID
	}

	alreadyAttached := next.BelongsTo(societeID)
	if err := a.Attach(ctx, users, next, societeID); err != nil {
		return result, err
	}
	if !alreadyAttached {
		result.Attached = &next.ID
	}
	return result, nil
}

// Release clears societe_id on every user pointing at societeID.
func (a *AdminAssignment) Release(ctx context.Context, users repository.UserRepository, societeID uuid.UUID) (int64, error) {
	n, err := users.DetachAllFromSociete(ctx, societeID)
	if err != nil {
		return 0, err
	}
	a.log.WithFields(logrus.Fields{"societe_id": societeID, "users": n}).Info("societe members released")
	return n, nil
}

func (a *AdminAssignment) detach(ctx context.Context, users repository.UserRepository, adminID, societeID uuid.UUID) error {
	if err := users.DetachSociete(ctx, adminID); err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{"admin_id": adminID, "societe_id": societeID}).Info("administrator detached")
	return nil
}

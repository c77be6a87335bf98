package service

import (
	"fmt"

	"go-societe-admin/internal/repository"
	"go-societe-admin/pkg/apperror"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotAdministrator       = apperror.Validation("the selected user is not an administrator")
	ErrAdminAssignedElsewhere = apperror.Conflict("administrator already assigned to another societe")
	ErrSocieteHasAdmin        = apperror.Conflict("societe already has an administrator")

	ErrUserNotFound    = apperror.NotFound("user not found")
	ErrAdminNotFound   = apperror.NotFound("administrator not found")
	ErrSocieteNotFound = apperror.NotFound("societe not found")
	ErrRoleNotFound    = apperror.NotFound("role not found")

	ErrUnknownSociete     = apperror.ValidationFields("the selected societe does not exist", map[string]string{"societe_id": "the selected societe does not exist"})
	ErrUnknownRole        = apperror.ValidationFields("the selected role does not exist", map[string]string{"role_id": "the selected role does not exist"})
	ErrUserEmailTaken     = apperror.ValidationFields("email has already been taken", map[string]string{"email": "email has already been taken"})
	ErrAdminEmailTaken    = apperror.ValidationFields("admin_email has already been taken", map[string]string{"admin_email": "admin_email has already been taken"})
	ErrSocieteEmailTaken  = apperror.ValidationFields("email has already been taken", map[string]string{"email": "email has already been taken"})
	ErrUnknownPermission  = apperror.ValidationFields("one or more permissions do not exist", map[string]string{"permission_ids": "one or more permissions do not exist"})
	ErrSelfDelete         = apperror.Forbidden("you cannot delete your own account")
	ErrInvalidCredentials = apperror.Unauthenticated("invalid credentials")
	ErrUserInactive       = apperror.Forbidden("user account is inactive")
)

// classifyWrite turns storage constraint failures into domain errors. The
// partial admin index is a backstop for the assignment checks.
func classifyWrite(err error) error {
	switch {
	case err == nil:
		return nil
	case repository.IsUniqueViolation(err, repository.IndexAdminSociete, "users.societe_id"):
		return apperror.Wrap(ErrSocieteHasAdmin, err)
	case repository.IsUniqueViolation(err, repository.IndexUserEmail, "users.email"):
		return apperror.Wrap(ErrUserEmailTaken, err)
	case repository.IsUniqueViolation(err, repository.IndexSocieteEmail, "societes.email"):
		return apperror.Wrap(ErrSocieteEmailTaken, err)
	case repository.IsForeignKeyViolation(err):
		return apperror.Wrap(apperror.Validation("referenced record does not exist"), err)
	}
	return err
}

// unexpected passes classified errors through. Anything else is logged and
// wrapped with the failing operation; the transport answers it with a 500.
func unexpected(log *logrus.Logger, op string, err error) error {
	if apperror.KindOf(err) != apperror.KindInternal {
		return err
	}
	log.WithError(err).WithField("op", op).Error("unexpected storage error")
	return fmt.Errorf("%s: %w", op, err)
}

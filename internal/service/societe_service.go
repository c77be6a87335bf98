package service

import (
	"context"

	"go-societe-admin/internal/export"
	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
	"go-societe-admin/pkg/optional"
	"go-societe-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SocieteService interface {
	List(ctx context.Context) ([]model.Societe, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Societe, error)
	Create(ctx context.Context, req *CreateSocieteRequest, actorID string) (*model.Societe, error)
	CreateWithAdmin(ctx context.Context, req *CreateSocieteWithAdminRequest, actorID string) (*model.Societe, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateSocieteRequest, actorID string) (*model.Societe, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Export(ctx context.Context) ([]byte, error)
}

// SocieteFields are the company columns accepted on creation.
type SocieteFields struct {
	Nom         string  `json:"nom" validate:"required,max=255"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Telephone   *string `json:"telephone" validate:"omitempty,max=30"`
	Adresse     *string `json:"adresse" validate:"omitempty,max=255"`
	CodePostal  *string `json:"code_postal" validate:"omitempty,max=20"`
	Ville       *string `json:"ville" validate:"omitempty,max=100"`
	Pays        *string `json:"pays" validate:"omitempty,max=100"`
	Secteur     *string `json:"secteur" validate:"omitempty,max=150"`
	Description *string `json:"description"`
	Logo        *string `json:"logo" validate:"omitempty,max=255"`
}

func (f *SocieteFields) toModel() *model.Societe {
	pays := model.DefaultPays
	if f.Pays != nil && *f.Pays != "" {
		pays = *f.Pays
	}
	return &model.Societe{
		Nom:         f.Nom,
		Email:       f.Email,
		Telephone:   f.Telephone,
		Adresse:     f.Adresse,
		CodePostal:  f.CodePostal,
		Ville:       f.Ville,
		Pays:        pays,
		Secteur:     f.Secteur,
		Description: f.Description,
		Logo:        f.Logo,
		IsActive:    true,
	}
}

// CreateSocieteRequest creates a societe and attaches an existing,
// unassigned administrator to it.
type CreateSocieteRequest struct {
	SocieteFields
	AdminID uuid.UUID `json:"admin_id" validate:"uuid_required"`
}

// CreateSocieteWithAdminRequest creates a societe together with a brand new
// administrator account.
type CreateSocieteWithAdminRequest struct {
	SocieteFields
	AdminName      string  `json:"admin_name" validate:"required,max=255"`
	AdminEmail     string  `json:"admin_email" validate:"required,email,max=255"`
	AdminPassword  string  `json:"admin_password" validate:"required,min=8"`
	AdminTelephone *string `json:"admin_telephone" validate:"omitempty,max=30"`
}

// UpdateSocieteRequest is a partial update. Absent keys are left untouched;
// admin_id present as null detaches the current administrator.
type UpdateSocieteRequest struct {
	Nom         *string                   `json:"nom" validate:"omitnil,min=1,max=255"`
	Email       *string                   `json:"email" validate:"omitnil,email,max=255"`
	Telephone   optional.Value[string]    `json:"telephone" validate:"omitempty,max=30"`
	Adresse     optional.Value[string]    `json:"adresse" validate:"omitempty,max=255"`
	CodePostal  optional.Value[string]    `json:"code_postal" validate:"omitempty,max=20"`
	Ville       optional.Value[string]    `json:"ville" validate:"omitempty,max=100"`
	Pays        optional.Value[string]    `json:"pays" validate:"omitempty,max=100"`
	Secteur     optional.Value[string]    `json:"secteur" validate:"omitempty,max=150"`
	Description optional.Value[string]    `json:"description"`
	Logo        optional.Value[string]    `json:"logo" validate:"omitempty,max=255"`
	IsActive    *bool                     `json:"is_active"`
	AdminID     optional.Value[uuid.UUID] `json:"admin_id"`
}

func (r *UpdateSocieteRequest) apply(s *model.Societe) {
	if r.Nom != nil {
		s.Nom = *r.Nom
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
	setNullable(&s.Telephone, r.Telephone)
	setNullable(&s.Adresse, r.Adresse)
	setNullable(&s.CodePostal, r.CodePostal)
	setNullable(&s.Ville, r.Ville)
	setNullable(&s.Secteur, r.Secteur)
	setNullable(&s.Description, r.Description)
	setNullable(&s.Logo, r.Logo)
	if r.Pays.Set {
		s.Pays = model.DefaultPays
		if r.Pays.Ptr != nil && *r.Pays.Ptr != "" {
			s.Pays = *r.Pays.Ptr
		}
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
}

func setNullable(dst **string, v optional.Value[string]) {
	if v.Set {
		*dst = v.Ptr
	}
}

type societeService struct {
	db         *gorm.DB
	societes   repository.SocieteRepository
	users      repository.UserRepository
	roles      *RoleRegistry
	assignment *AdminAssignment
	events     Publisher
	log        *logrus.Logger
}

func NewSocieteService(
	db *gorm.DB,
	societes repository.SocieteRepository,
	users repository.UserRepository,
	roles *RoleRegistry,
	assignment *AdminAssignment,
	events Publisher,
	log *logrus.Logger,
) SocieteService {
	return &societeService{
		db:         db,
		societes:   societes,
		users:      users,
		roles:      roles,
		assignment: assignment,
		events:     events,
		log:        log,
	}
}

func (s *societeService) List(ctx context.Context) ([]model.Societe, error) {
	societes, err := s.societes.FindAll(ctx)
	if err != nil {
		return nil, unexpected(s.log, "list societes", err)
	}
	if err := s.attachAdmins(ctx, s.users, societes); err != nil {
		return nil, unexpected(s.log, "list societe admins", err)
	}
	return societes, nil
}

func (s *societeService) attachAdmins(ctx context.Context, users repository.UserRepository, societes []model.Societe) error {
	ids := make([]uuid.UUID, len(societes))
	for i := range societes {
		ids[i] = societes[i].ID
	}
	admins, err := users.FindAdminsOfSocietes(ctx, s.roles.ID(model.RoleAdmin), ids)
	if err != nil {
		return err
	}
	bySociete := make(map[uuid.UUID]*model.User, len(admins))
	for i := range admins {
		bySociete[*admins[i].SocieteID] = &admins[i]
	}
	for i := range societes {
		societes[i].Admin = bySociete[societes[i].ID]
	}
	return nil
}

func (s *societeService) Get(ctx context.Context, id uuid.UUID) (*model.Societe, error) {
	societe, err := s.societes.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, ErrSocieteNotFound
	}
	if err != nil {
		return nil, unexpected(s.log, "find societe", err)
	}
	if societe.Admin, err = s.users.FindSocieteAdmin(ctx, s.roles.ID(model.RoleAdmin), id); err != nil {
		return nil, unexpected(s.log, "find societe admin", err)
	}
	if societe.Commerciaux, err = s.users.FindBySocieteAndRole(ctx, id, s.roles.ID(model.RoleCommercial)); err != nil {
		return nil, unexpected(s.log, "find societe commerciaux", err)
	}
	return societe, nil
}

func (s *societeService) Create(ctx context.Context, req *CreateSocieteRequest, actorID string) (*model.Societe, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	var (
		societe *model.Societe
		events  eventBuffer
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		societes := s.societes.WithTx(tx)
		users := s.users.WithTx(tx)

		if err := s.ensureEmailFree(ctx, societes, req.Email, nil); err != nil {
			return err
		}
		admin, err := s.assignment.LockFreeAdmin(ctx, users, req.AdminID)
		if err != nil {
			return err
		}

		societe = req.toModel()
		societe.CreatedBy = actorID
		societe.UpdatedBy = actorID
		if err := societes.Create(ctx, societe); err != nil {
			return classifyWrite(err)
		}
		if err := s.assignment.Attach(ctx, users, admin, societe.ID); err != nil {
			return err
		}
		societe.Admin = admin

		events.add(EventSocieteCreated, societe)
		events.add(EventAdminAssigned, AssignmentEvent{AdminID: admin.ID, SocieteID: societe.ID})
		return nil
	})
	if err != nil {
		return nil, unexpected(s.log, "create societe", err)
	}

	events.flush(s.events)
	return societe, nil
}

func (s *societeService) CreateWithAdmin(ctx context.Context, req *CreateSocieteWithAdminRequest, actorID string) (*model.Societe, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	var (
		societe *model.Societe
		events  eventBuffer
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		societes := s.societes.WithTx(tx)
		users := s.users.WithTx(tx)

		if err := s.ensureEmailFree(ctx, societes, req.Email, nil); err != nil {
			return err
		}
		taken, err := users.EmailTaken(ctx, req.AdminEmail, nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrAdminEmailTaken
		}

		societe = req.toModel()
		societe.CreatedBy = actorID
		societe.UpdatedBy = actorID
		if err := societes.Create(ctx, societe); err != nil {
			return classifyWrite(err)
		}

		admin := &model.User{
			Name:      req.AdminName,
			Email:     req.AdminEmail,
			Telephone: req.AdminTelephone,
			RoleID:    s.roles.ID(model.RoleAdmin),
			SocieteID: &societe.ID,
			IsActive:  true,
		}
		admin.CreatedBy = actorID
		admin.UpdatedBy = actorID
		if err := admin.SetPassword(req.AdminPassword); err != nil {
			return err
		}
		if err := users.Create(ctx, admin); err != nil {
			return classifyWrite(err)
		}
		societe.Admin = admin

		events.add(EventSocieteCreated, societe)
		events.add(EventAdminAssigned, AssignmentEvent{AdminID: admin.ID, SocieteID: societe.ID})
		return nil
	})
	if err != nil {
		return nil, unexpected(s.log, "create societe with admin", err)
	}

	events.flush(s.events)
	return societe, nil
}

func (s *societeService) Update(ctx context.Context, id uuid.UUID, req *UpdateSocieteRequest, actorID string) (*model.Societe, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	var (
		societe *model.Societe
		events  eventBuffer
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		societes := s.societes.WithTx(tx)
		users := s.users.WithTx(tx)

		var err error
		societe, err = societes.FindByIDForUpdate(ctx, id)
		if repository.IsNotFound(err) {
			return ErrSocieteNotFound
		}
		if err != nil {
			return err
		}

		if req.Email != nil && *req.Email != societe.Email {
			if err := s.ensureEmailFree(ctx, societes, *req.Email, &id); err != nil {
				return err
			}
		}

		// The admin pairing is settled before the company's own columns.
		if req.AdminID.Set {
			change, err := s.assignment.Reassign(ctx, users, id, req.AdminID.Ptr)
			if err != nil {
				return err
			}
			if change.Detached != nil {
				events.add(EventAdminDetached, AssignmentEvent{AdminID: *change.Detached, SocieteID: id})
			}
			if change.Attached != nil {
				events.add(EventAdminAssigned, AssignmentEvent{AdminID: *change.Attached, SocieteID: id})
			}
		}

		req.apply(societe)
		societe.UpdatedBy = actorID
		if err := societes.Update(ctx, societe); err != nil {
			return classifyWrite(err)
		}

		if societe.Admin, err = users.FindSocieteAdmin(ctx, s.roles.ID(model.RoleAdmin), id); err != nil {
			return err
		}
		events.add(EventSocieteUpdated, societe)
		return nil
	})
	if err != nil {
		return nil, unexpected(s.log, "update societe", err)
	}

	events.flush(s.events)
	return societe, nil
}

func (s *societeService) Delete(ctx context.Context, id uuid.UUID) error {
	var released int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		societes := s.societes.WithTx(tx)

		if _, err := societes.FindByIDForUpdate(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return ErrSocieteNotFound
			}
			return err
		}

		var err error
		if released, err = s.assignment.Release(ctx, s.users.WithTx(tx), id); err != nil {
			return err
		}
		return societes.Delete(ctx, id)
	})
	if err != nil {
		return unexpected(s.log, "delete societe", err)
	}

	s.events.Publish(EventSocieteDeleted, map[string]interface{}{"id": id, "released_users": released})
	return nil
}

func (s *societeService) Export(ctx context.Context) ([]byte, error) {
	societes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.users.CountBySocieteForRole(ctx, s.roles.ID(model.RoleCommercial))
	if err != nil {
		return nil, unexpected(s.log, "count commerciaux", err)
	}

	rows := make([]export.SocieteRow, len(societes))
	for i, societe := range societes {
		rows[i] = export.SocieteRow{Societe: societe, Commerciaux: counts[societe.ID]}
	}
	data, err := export.Societes(rows)
	if err != nil {
		return nil, unexpected(s.log, "export societes", err)
	}
	return data, nil
}

func (s *societeService) ensureEmailFree(ctx context.Context, societes repository.SocieteRepository, email string, exclude *uuid.UUID) error {
	taken, err := societes.EmailTaken(ctx, email, exclude)
	if err != nil {
		return err
	}
	if taken {
		return ErrSocieteEmailTaken
	}
	return nil
}

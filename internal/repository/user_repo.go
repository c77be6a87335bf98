package repository

import (
	"context"
	"fmt"

	"go-societe-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error)
	EmailTaken(ctx context.Context, email string, exclude *uuid.UUID) (bool, error)
	List(ctx context.Context, offset, limit int) ([]model.User, int64, error)
	FindByRole(ctx context.Context, roleID uint) ([]model.User, error)
	FindBySocieteAndRole(ctx context.Context, societeID uuid.UUID, roleID uint) ([]model.User, error)
	FindAdminsOfSocietes(ctx context.Context, adminRoleID uint, societeIDs []uuid.UUID) ([]model.User, error)
	FindSocieteAdmin(ctx context.Context, adminRoleID uint, societeID uuid.UUID) (*model.User, error)
	SocieteHasAdmin(ctx context.Context, adminRoleID uint, societeID uuid.UUID, exclude *uuid.UUID) (bool, error)
	CountBySocieteForRole(ctx context.Context, roleID uint) (map[uuid.UUID]int64, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error
	AttachSociete(ctx context.Context, userID, societeID uuid.UUID) (bool, error)
	DetachSociete(ctx context.Context, userID uuid.UUID) error
	DetachAllFromSociete(ctx context.Context, societeID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
	EnsureAdminSocieteIndex(ctx context.Context, adminRoleID uint) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) WithTx(tx *gorm.DB) UserRepository {
	return &userRepo{tx}
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Role.Permissions").Preload("Societe").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Role.Permissions").Preload("Societe").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate loads the bare row and locks it until the transaction ends
func (r *userRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) EmailTaken(ctx context.Context, email string, exclude *uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var (
		users []model.User
		total int64
	)
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Preload("Role").Preload("Societe").
		Order("created_at").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepo) FindByRole(ctx context.Context, roleID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Preload("Societe").
		Where("role_id = ?", roleID).
		Order("created_at").
		Find(&users).Error
	return users, err
}

func (r *userRepo) FindBySocieteAndRole(ctx context.Context, societeID uuid.UUID, roleID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("societe_id = ? AND role_id = ?", societeID, roleID).
		Order("created_at").
		Find(&users).Error
	return users, err
}

func (r *userRepo) FindAdminsOfSocietes(ctx context.Context, adminRoleID uint, societeIDs []uuid.UUID) ([]model.User, error) {
	var users []model.User
	if len(societeIDs) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND societe_id IN ?", adminRoleID, societeIDs).
		Find(&users).Error
	return users, err
}

// FindSocieteAdmin returns the administrator of the societe, or nil when it has none
func (r *userRepo) FindSocieteAdmin(ctx context.Context, adminRoleID uint, societeID uuid.UUID) (*model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND societe_id = ?", adminRoleID, societeID).
		Limit(1).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (r *userRepo) SocieteHasAdmin(ctx context.Context, adminRoleID uint, societeID uuid.UUID, exclude *uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role_id = ? AND societe_id = ?", adminRoleID, societeID)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) CountBySocieteForRole(ctx context.Context, roleID uint) (map[uuid.UUID]int64, error) {
	var rows []struct {
		SocieteID uuid.UUID
		Total     int64
	}
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("societe_id, COUNT(*) AS total").
		Where("role_id = ? AND societe_id IS NOT NULL", roleID).
		Group("societe_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.SocieteID] = row.Total
	}
	return counts, nil
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

// AttachSociete sets societe_id only if the user is unassigned or already on
// that societe. It returns false when the row was claimed elsewhere meanwhile.
func (r *userRepo) AttachSociete(ctx context.Context, userID, societeID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND (societe_id IS NULL OR societe_id = ?)", userID, societeID).
		Update("societe_id", societeID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepo) DetachSociete(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("societe_id", nil).Error
}

func (r *userRepo) DetachAllFromSociete(ctx context.Context, societeID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("societe_id = ?", societeID).
		Update("societe_id", nil)
	return res.RowsAffected, res.Error
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

// EnsureAdminSocieteIndex creates the partial unique index that allows at
// most one admin row per societe_id. The predicate needs the concrete admin
// role id, so it cannot live in a static migration.
func (r *userRepo) EnsureAdminSocieteIndex(ctx context.Context, adminRoleID uint) error {
	stmt := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON users (societe_id) WHERE role_id = %d",
		IndexAdminSociete, adminRoleID,
	)
	return r.db.WithContext(ctx).Exec(stmt).Error
}

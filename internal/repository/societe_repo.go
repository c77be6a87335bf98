package repository

import (
	"context"

	"go-societe-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SocieteRepository interface {
	WithTx(tx *gorm.DB) SocieteRepository
	FindAll(ctx context.Context) ([]model.Societe, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Societe, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Societe, error)
	EmailTaken(ctx context.Context, email string, exclude *uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, societe *model.Societe) error
	Update(ctx context.Context, societe *model.Societe) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type societeRepo struct {
	db *gorm.DB
}

func NewSocieteRepo(db *gorm.DB) SocieteRepository {
	return &societeRepo{db}
}

func (r *societeRepo) WithTx(tx *gorm.DB) SocieteRepository {
	return &societeRepo{tx}
}

func (r *societeRepo) FindAll(ctx context.Context) ([]model.Societe, error) {
	var societes []model.Societe
	err := r.db.WithContext(ctx).Order("nom").Find(&societes).Error
	return societes, err
}

func (r *societeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Societe, error) {
	var societe model.Societe
	if err := r.db.WithContext(ctx).First(&societe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &societe, nil
}

func (r *societeRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Societe, error) {
	var societe model.Societe
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&societe, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &societe, nil
}

func (r *societeRepo) EmailTaken(ctx context.Context, email string, exclude *uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Societe{}).Where("email = ?", email)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *societeRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Societe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *societeRepo) Create(ctx context.Context, societe *model.Societe) error {
	return r.db.WithContext(ctx).Create(societe).Error
}

func (r *societeRepo) Update(ctx context.Context, societe *model.Societe) error {
	return r.db.WithContext(ctx).Save(societe).Error
}

func (r *societeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Societe{}, "id = ?", id).Error
}

func (r *societeRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Societe{}).Count(&count).Error
	return count, err
}

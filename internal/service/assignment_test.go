package service

import (
	"testing"

	"go-societe-admin/internal/model"
	"go-societe-admin/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAttachLosesRaceToConcurrentClaim(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	d := f.societe(t, "D")
	a := f.user(t, "A", model.RoleAdmin, nil)
	assignment := NewAdminAssignment(f.roles, logger.Discard())

	// a was read as free, then claimed by D before the attach ran.
	stale := *a
	ok, err := f.userRepo.AttachSociete(f.ctx, a.ID, d.ID)
	require.NoError(t, err)
	require.True(t, ok)

	err = f.db.Transaction(func(tx *gorm.DB) error {
		return assignment.Attach(f.ctx, f.userRepo.WithTx(tx), &stale, c.ID)
	})
	require.ErrorIs(t, err, ErrAdminAssignedElsewhere)
	assert.True(t, f.reload(t, a.ID).BelongsTo(d.ID))
}

func TestAdminIndexBackstop(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	f.user(t, "A", model.RoleAdmin, &c.ID)

	second := &model.User{
		Name:      "B",
		Email:     "b@backstop.tn",
		Password:  "x",
		RoleID:    f.roles.ID(model.RoleAdmin),
		SocieteID: &c.ID,
		IsActive:  true,
	}
	err := f.userRepo.Create(f.ctx, second)
	require.Error(t, err)
	require.ErrorIs(t, classifyWrite(err), ErrSocieteHasAdmin)
	assert.Equal(t, int64(1), f.adminsOf(t, c.ID))

	// commerciaux are not constrained by the index
	f.user(t, "K1", model.RoleCommercial, &c.ID)
	f.user(t, "K2", model.RoleCommercial, &c.ID)
}

func TestCheckSlotIgnoresNonAdminsAndNilSociete(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	a := f.user(t, "A", model.RoleAdmin, &c.ID)
	assignment := NewAdminAssignment(f.roles, logger.Discard())

	assert.NoError(t, assignment.CheckSlot(f.ctx, f.userRepo, f.roles.ID(model.RoleCommercial), &c.ID, nil))
	assert.NoError(t, assignment.CheckSlot(f.ctx, f.userRepo, f.roles.ID(model.RoleAdmin), nil, nil))
	assert.NoError(t, assignment.CheckSlot(f.ctx, f.userRepo, f.roles.ID(model.RoleAdmin), &c.ID, &a.ID))
	assert.ErrorIs(t, assignment.CheckSlot(f.ctx, f.userRepo, f.roles.ID(model.RoleAdmin), &c.ID, nil), ErrSocieteHasAdmin)
}

package service

import (
	"bytes"
	"testing"

	"go-societe-admin/internal/model"
	"go-societe-admin/pkg/apperror"
	"go-societe-admin/pkg/optional"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func createReq(nom string, adminID uuid.UUID) *CreateSocieteRequest {
	return &CreateSocieteRequest{
		SocieteFields: SocieteFields{Nom: nom, Email: uuid.NewString() + "@new.tn"},
		AdminID:       adminID,
	}
}

func TestCreateSocieteAttachesFreeAdmin(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "Amine", model.RoleAdmin, nil)

	societe, err := f.societes.Create(f.ctx, createReq("Acme", admin.ID), "tester")
	require.NoError(t, err)

	assert.Equal(t, model.DefaultPays, societe.Pays)
	assert.True(t, societe.IsActive)
	require.NotNil(t, societe.Admin)
	assert.Equal(t, admin.ID, societe.Admin.ID)

	stored := f.reload(t, admin.ID)
	require.NotNil(t, stored.SocieteID)
	assert.Equal(t, societe.ID, *stored.SocieteID)
	assert.Equal(t, []string{EventSocieteCreated, EventAdminAssigned}, f.events.types())
}

func TestCreateSocieteRejectsAdminAssignedElsewhere(t *testing.T) {
	f := newFixture(t)
	other := f.societe(t, "Other")
	admin := f.user(t, "Amine", model.RoleAdmin, &other.ID)

	_, err := f.societes.Create(f.ctx, createReq("Acme", admin.ID), "tester")
	require.ErrorIs(t, err, ErrAdminAssignedElsewhere)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	count, err := f.socRepo.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, other.ID, *f.reload(t, admin.ID).SocieteID)
	assert.Empty(t, f.events.types())
}

func TestCreateSocieteRejectsNonAdmin(t *testing.T) {
	f := newFixture(t)
	commercial := f.user(t, "Karim", model.RoleCommercial, nil)

	_, err := f.societes.Create(f.ctx, createReq("Acme", commercial.ID), "tester")
	require.ErrorIs(t, err, ErrNotAdministrator)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.societes.Create(f.ctx, createReq("Acme", uuid.New()), "tester")
	require.ErrorIs(t, err, ErrNotAdministrator)

	count, err := f.socRepo.Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateSocieteValidatesFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.societes.Create(f.ctx, &CreateSocieteRequest{SocieteFields: SocieteFields{Email: "bad"}}, "tester")
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, ae.Kind)
	assert.Contains(t, ae.Fields, "nom")
	assert.Contains(t, ae.Fields, "email")
	assert.Contains(t, ae.Fields, "admin_id")
}

func TestCreateSocieteRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	existing := f.societe(t, "Existing")
	admin := f.user(t, "Amine", model.RoleAdmin, nil)

	req := createReq("Acme", admin.ID)
	req.Email = existing.Email
	_, err := f.societes.Create(f.ctx, req, "tester")
	require.ErrorIs(t, err, ErrSocieteEmailTaken)
	assert.Nil(t, f.reload(t, admin.ID).SocieteID)
}

func TestCreateSocieteWithAdmin(t *testing.T) {
	f := newFixture(t)

	societe, err := f.societes.CreateWithAdmin(f.ctx, &CreateSocieteWithAdminRequest{
		SocieteFields: SocieteFields{Nom: "Acme", Email: "contact@acme.tn", Pays: ptr("France")},
		AdminName:     "Amine",
		AdminEmail:    "amine@acme.tn",
		AdminPassword: "secret123",
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, "France", societe.Pays)
	require.NotNil(t, societe.Admin)

	admin := f.reload(t, societe.Admin.ID)
	assert.Equal(t, model.RoleAdmin, admin.RoleName())
	assert.True(t, admin.BelongsTo(societe.ID))
	assert.True(t, admin.CheckPassword("secret123"))
}

func TestCreateSocieteWithAdminRollsBackOnTakenEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.societes.CreateWithAdmin(f.ctx, &CreateSocieteWithAdminRequest{
		SocieteFields: SocieteFields{Nom: "Acme", Email: "contact@acme.tn"},
		AdminName:     "Root again",
		AdminEmail:    superAdminEmail,
		AdminPassword: "secret123",
	}, "tester")
	require.ErrorIs(t, err, ErrAdminEmailTaken)

	count, err := f.socRepo.Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUpdateSocieteReassignsAdmin(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	a := f.user(t, "A", model.RoleAdmin, &c.ID)
	b := f.user(t, "B", model.RoleAdmin, nil)
	k := f.user(t, "K", model.RoleCommercial, &c.ID)

	updated, err := f.societes.Update(f.ctx, c.ID, &UpdateSocieteRequest{AdminID: optional.Of(b.ID)}, "tester")
	require.NoError(t, err)
	require.NotNil(t, updated.Admin)
	assert.Equal(t, b.ID, updated.Admin.ID)

	assert.Nil(t, f.reload(t, a.ID).SocieteID)
	assert.True(t, f.reload(t, b.ID).BelongsTo(c.ID))
	assert.True(t, f.reload(t, k.ID).BelongsTo(c.ID))
	assert.Equal(t, int64(1), f.adminsOf(t, c.ID))
	assert.Equal(t, []string{EventAdminDetached, EventAdminAssigned, EventSocieteUpdated}, f.events.types())
}

func TestUpdateSocieteSameAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	a := f.user(t, "A", model.RoleAdmin, &c.ID)

	updated, err := f.societes.Update(f.ctx, c.ID, &UpdateSocieteRequest{AdminID: optional.Of(a.ID)}, "tester")
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.Admin.ID)
	assert.True(t, f.reload(t, a.ID).BelongsTo(c.ID))
	assert.Equal(t, []string{EventSocieteUpdated}, f.events.types())
}

func TestUpdateSocieteNullAdminDetachesOnlyAdmin(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	a := f.user(t, "A", model.RoleAdmin, &c.ID)
	k := f.user(t, "K", model.RoleCommercial, &c.ID)

	updated, err := f.societes.Update(f.ctx, c.ID, &UpdateSocieteRequest{AdminID: optional.Null[uuid.UUID]()}, "tester")
	require.NoError(t, err)
	assert.Nil(t, updated.Admin)
	assert.Nil(t, f.reload(t, a.ID).SocieteID)
	assert.True(t, f.reload(t, k.ID).BelongsTo(c.ID))
}

func TestUpdateSocieteRejectsAdminOfAnotherSociete(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	d := f.societe(t, "D")
	a := f.user(t, "A", model.RoleAdmin, &c.ID)
	b := f.user(t, "B", model.RoleAdmin, &d.ID)

	_, err := f.societes.Update(f.ctx, c.ID, &UpdateSocieteRequest{
		Nom:     ptr("Renamed"),
		AdminID: optional.Of(b.ID),
	}, "tester")
	require.ErrorIs(t, err, ErrAdminAssignedElsewhere)

	assert.True(t, f.reload(t, a.ID).BelongsTo(c.ID))
	assert.True(t, f.reload(t, b.ID).BelongsTo(d.ID))
	stored, err := f.socRepo.FindByID(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", stored.Nom)
}

func TestUpdateSocieteRejectsNonAdministrator(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	a := f.user(t, "A", model.RoleAdmin, &c.ID)
	k := f.user(t, "K", model.RoleCommercial, nil)

	_, err := f.societes.Update(f.ctx, c.ID, &UpdateSocieteRequest{
		Nom:     ptr("X"),
		AdminID: optional.Of(k.ID),
	}, "tester")
	require.ErrorIs(t, err, ErrNotAdministrator)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.societes.Update(f.ctx, c.ID, &UpdateSocieteRequest{AdminID: optional.Of(uuid.New())}, "tester")
	require.ErrorIs(t, err, ErrNotAdministrator)

	assert.True(t, f.reload(t, a.ID).BelongsTo(c.ID))
	assert.Nil(t, f.reload(t, k.ID).SocieteID)
	stored, err := f.socRepo.FindByID(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", stored.Nom)
	assert.Empty(t, f.events.types())
}

func TestUpdateSocieteFieldsWithoutAdminKey(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	c.Ville = ptr("Sousse")
	require.NoError(t, f.socRepo.Update(f.ctx, c))
	a := f.user(t, "A", model.RoleAdmin, &c.ID)

	updated, err := f.societes.Update(f.ctx, c.ID, &UpdateSocieteRequest{
		Nom:   ptr("Renamed"),
		Ville: optional.Null[string](),
		Pays:  optional.Of("Maroc"),
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Nom)
	assert.Nil(t, updated.Ville)
	assert.Equal(t, "Maroc", updated.Pays)
	assert.Equal(t, a.ID, updated.Admin.ID)
	assert.True(t, f.reload(t, a.ID).BelongsTo(c.ID))
}

func TestUpdateSocieteMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.societes.Update(f.ctx, uuid.New(), &UpdateSocieteRequest{Nom: ptr("x")}, "tester")
	require.ErrorIs(t, err, ErrSocieteNotFound)
}

func TestDeleteSocieteReleasesMembers(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	a := f.user(t, "A", model.RoleAdmin, &c.ID)
	k := f.user(t, "K", model.RoleCommercial, &c.ID)

	require.NoError(t, f.societes.Delete(f.ctx, c.ID))

	assert.Nil(t, f.reload(t, a.ID).SocieteID)
	assert.Nil(t, f.reload(t, k.ID).SocieteID)

	_, err := f.societes.Get(f.ctx, c.ID)
	require.ErrorIs(t, err, ErrSocieteNotFound)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = f.societes.Delete(f.ctx, c.ID)
	require.ErrorIs(t, err, ErrSocieteNotFound)
}

func TestGetSocieteIncludesAdminAndCommerciaux(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "C")
	a := f.user(t, "A", model.RoleAdmin, &c.ID)
	f.user(t, "K1", model.RoleCommercial, &c.ID)
	f.user(t, "K2", model.RoleCommercial, &c.ID)
	f.user(t, "Client", model.RoleClient, &c.ID)

	societe, err := f.societes.Get(f.ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, societe.Admin)
	assert.Equal(t, a.ID, societe.Admin.ID)
	assert.Len(t, societe.Commerciaux, 2)
}

func TestListSocietesAttachesAdmins(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "Alpha")
	f.societe(t, "Beta")
	a := f.user(t, "A", model.RoleAdmin, &c.ID)

	list, err := f.societes.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Nom)
	require.NotNil(t, list[0].Admin)
	assert.Equal(t, a.ID, list[0].Admin.ID)
	assert.Nil(t, list[1].Admin)
}

func TestExportSocietes(t *testing.T) {
	f := newFixture(t)
	c := f.societe(t, "Alpha")
	f.user(t, "A", model.RoleAdmin, &c.ID)
	f.user(t, "K", model.RoleCommercial, &c.ID)

	data, err := f.societes.Export(f.ctx)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(book.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[1][0])
	assert.Equal(t, "A", rows[1][9])
	assert.Equal(t, "1", rows[1][11])
}

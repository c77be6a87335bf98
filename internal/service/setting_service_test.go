package service

import (
	"testing"

	"go-societe-admin/internal/repository"
	"go-societe-admin/pkg/apperror"
	"go-societe-admin/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsUpsert(t *testing.T) {
	f := newFixture(t)
	svc := NewSettingService(repository.NewSettingRepo(f.db), logger.Discard())

	require.NoError(t, svc.Save(f.ctx, &SaveSettingsRequest{Settings: map[string]interface{}{
		"platform_name": "Devis",
		"max_users":     float64(25),
		"vat_rate":      19.5,
		"maintenance":   true,
		"footer":        nil,
	}}))
	require.NoError(t, svc.Save(f.ctx, &SaveSettingsRequest{Settings: map[string]interface{}{
		"platform_name": "Devis Pro",
	}}))

	all, err := svc.All(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "Devis Pro", *all["platform_name"])
	assert.Equal(t, "25", *all["max_users"])
	assert.Equal(t, "19.5", *all["vat_rate"])
	assert.Equal(t, "1", *all["maintenance"])
	assert.Nil(t, all["footer"])
}

func TestSettingsRejectNonScalar(t *testing.T) {
	f := newFixture(t)
	svc := NewSettingService(repository.NewSettingRepo(f.db), logger.Discard())

	err := svc.Save(f.ctx, &SaveSettingsRequest{Settings: map[string]interface{}{"list": []interface{}{1}}})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	err = svc.Save(f.ctx, &SaveSettingsRequest{})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

package service

import (
	"context"
	"strconv"

	"go-societe-admin/internal/model"
	"go-societe-admin/internal/repository"
	"go-societe-admin/pkg/apperror"
	"go-societe-admin/pkg/validator"

	"github.com/sirupsen/logrus"
)

type SettingService interface {
	All(ctx context.Context) (map[string]*string, error)
	Save(ctx context.Context, req *SaveSettingsRequest) error
}

type SaveSettingsRequest struct {
	Settings map[string]interface{} `json:"settings" validate:"required"`
}

type settingService struct {
	settings repository.SettingRepository
	log      *logrus.Logger
}

func NewSettingService(settings repository.SettingRepository, log *logrus.Logger) SettingService {
	return &settingService{settings: settings, log: log}
}

func (s *settingService) All(ctx context.Context) (map[string]*string, error) {
	rows, err := s.settings.FindAll(ctx)
	if err != nil {
		return nil, unexpected(s.log, "list settings", err)
	}
	out := make(map[string]*string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Save upserts every key. Scalars are stored as strings and null as NULL;
// arrays and objects are rejected.
func (s *settingService) Save(ctx context.Context, req *SaveSettingsRequest) error {
	if err := validator.ValidateStruct(req); err != nil {
		return err
	}

	rows := make([]model.SystemSetting, 0, len(req.Settings))
	for key, raw := range req.Settings {
		value, ok := stringify(raw)
		if !ok {
			field := "settings." + key
			return apperror.ValidationFields(field+" must be a scalar value", map[string]string{field: "must be a scalar value"})
		}
		rows = append(rows, model.SystemSetting{Key: key, Value: value})
	}

	if err := s.settings.Upsert(ctx, rows); err != nil {
		return unexpected(s.log, "save settings", err)
	}
	return nil
}

func stringify(v interface{}) (*string, bool) {
	var out string
	switch t := v.(type) {
	case nil:
		return nil, true
	case string:
		out = t
	case bool:
		out = "0"
		if t {
			out = "1"
		}
	case float64:
		out = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return nil, false
	}
	return &out, true
}

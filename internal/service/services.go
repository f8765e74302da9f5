package service

import (
	"github.com/MKhiriev/go-admin-mixins/internal/config"
	"github.com/MKhiriev/go-admin-mixins/internal/forms"
	"github.com/MKhiriev/go-admin-mixins/internal/logger"
	"github.com/MKhiriev/go-admin-mixins/internal/mixins"
	"github.com/MKhiriev/go-admin-mixins/internal/store"
	"github.com/MKhiriev/go-admin-mixins/internal/validators"
	"github.com/MKhiriev/go-admin-mixins/models"
)

// Services holds the application services and the configured admin
// resources built on the mixins.
type Services struct {
	AuthService    AuthService
	AppInfoService AppInfoService

	// Files serves the uploads referenced by model file fields.
	Files store.FileStorage

	Auth       mixins.AuthMixin
	Corporates mixins.ModelFormMixin[models.Corporate]
	Branches   mixins.ModelFormMixin[models.Branch]
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	logger.Info().Msg("creating new services...")

	appInfoService, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, err
	}

	authService := NewAuthService(storages.Users, storages.Sessions, cfg.App, logger)
	validator := validators.NewStructValidator()

	return &Services{
		AuthService:    authService,
		AppInfoService: appInfoService,
		Files:          storages.Files,

		Auth: mixins.AuthMixin{
			Form:     &forms.AuthenticationFactory{Auth: authService, Validator: validator},
			Sessions: authService,
		},

		Corporates: mixins.ModelFormMixin[models.Corporate]{
			BaseOperation: mixins.BaseOperation[models.Corporate]{
				Form: &forms.Factory[models.Corporate]{
					Model:     storages.Corporates,
					Files:     storages.Files,
					Validator: validator,
					Fields:    []string{"name", "tax_number", "email", "website", "logo", "description", "is_active"},
					Sanitize:  true,
				},
				ExcludedFields: []string{"updated_at"},
			},
			MaxMemory: cfg.Storage.Files.MaxMemory,
		},

		Branches: mixins.ModelFormMixin[models.Branch]{
			BaseOperation: mixins.BaseOperation[models.Branch]{
				Form: &forms.Factory[models.Branch]{
					Model:     storages.Branches,
					Validator: validator,
					Fields:    []string{"corporate_id", "name", "city", "phone", "is_active"},
					Sanitize:  true,
				},
			},
			MaxMemory: cfg.Storage.Files.MaxMemory,
		},
	}, nil
}

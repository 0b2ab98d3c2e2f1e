//go:build wireinject
// +build wireinject

package factory

import (
	"context"

	"github.com/google/wire"
	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/screenrec/screenrec-server/pkg/controllers"
	"github.com/screenrec/screenrec-server/pkg/models"
	blobservice "github.com/screenrec/screenrec-server/pkg/services/blob"
	dbservice "github.com/screenrec/screenrec-server/pkg/services/db"
	redisservice "github.com/screenrec/screenrec-server/pkg/services/redis"
)

// build the dependency set for services
var serviceSet = wire.NewSet(
	dbservice.New,
	blobservice.New,
	redisservice.New,
)

// build the dependency set for models
var modelSet = wire.NewSet(
	models.NewRecordingModel,
	models.NewJanitorModel,
)

// build the dependency set for controllers
var controllerSet = wire.NewSet(
	controllers.NewRecordingController,
	controllers.NewHealthCheckController,
)

// NewAppFactory is the injector function that wire will implement.
func NewAppFactory(ctx context.Context, appConfig *config.AppConfig) (*Application, error) {
	wire.Build(
		serviceSet,
		modelSet,
		controllerSet,
		// Provide the whole AppConfig, and also specific fields needed by constructors.
		wire.FieldsOf(new(*config.AppConfig), "RDS", "Logger"),

		wire.Struct(new(ApplicationControllers), "*"),
		wire.Struct(new(Application), "*"),
	)
	return nil, nil // This return value is ignored.
}

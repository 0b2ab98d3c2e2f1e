package factory

import (
	"context"

	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/screenrec/screenrec-server/pkg/controllers"
	"github.com/screenrec/screenrec-server/pkg/models"
	dbservice "github.com/screenrec/screenrec-server/pkg/services/db"
)

// ApplicationControllers holds all the controllers.
type ApplicationControllers struct {
	RecordingController   *controllers.RecordingController
	HealthCheckController *controllers.HealthCheckController
}

// Application is the root struct holding all dependencies.
type Application struct {
	Controllers  *ApplicationControllers
	AppConfig    *config.AppConfig
	Ctx          context.Context
	store        dbservice.RecordingStore
	janitorModel *models.JanitorModel
}

func (a *Application) Boot() {
	go a.janitorModel.StartJanitor()
}

func (a *Application) Shutdown() {
	a.janitorModel.Shutdown()
	if err := a.store.Close(); err != nil {
		a.AppConfig.Logger.WithError(err).Errorln("failed to close metadata store")
	}
}

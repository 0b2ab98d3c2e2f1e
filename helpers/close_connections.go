package helpers

import (
	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/sirupsen/logrus"
)

func HandleCloseConnections() {
	if config.GetConfig() == nil {
		return
	}

	// close redis
	if rds := config.GetConfig().RDS; rds != nil {
		_ = rds.Close()
	}

	// close logger
	logrus.Exit(0)
}

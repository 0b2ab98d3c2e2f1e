package helpers

import (
	"context"
	"os"

	"github.com/screenrec/screenrec-server/pkg/config"
	"github.com/screenrec/screenrec-server/pkg/factory"
	"gopkg.in/yaml.v3"
)

// PrepareServer opens the optional external connections before the app
// factory runs. The metadata store itself is constructed by the factory.
func PrepareServer(ctx context.Context, appCnf *config.AppConfig) error {
	if appCnf.RedisInfo.Enabled {
		if err := factory.NewRedisConnection(ctx, appCnf); err != nil {
			return err
		}
	}
	return nil
}

func ReadYamlConfigFile(filename string) (*config.AppConfig, error) {
	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	appCnf := new(config.AppConfig)
	err = yaml.Unmarshal(yamlFile, appCnf)
	if err != nil {
		return nil, err
	}

	// get current working dir
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	// set the root path
	appCnf.RootWorkingDir = wd

	return appCnf, nil
}

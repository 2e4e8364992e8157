// Package persistence selects the flag repository backend from configuration.
package persistence

import (
	"strings"

	"flagpole/config"
	"flagpole/internal/domain/repository"
	"flagpole/internal/errors"
	"flagpole/internal/infra/persistence/memory"
	"flagpole/internal/infra/persistence/postgres"
)

// ErrUnknownStorageDriver is returned for a storage.driver value with no backend.
var ErrUnknownStorageDriver = errors.New("unknown storage driver")

// ProvideFlagRepository returns the repository named by storage.driver.
// The postgres driver opens its connection through postgres.New, which
// registers the ping, migration and shutdown hooks on the lifecycle.
func ProvideFlagRepository(params postgres.Params) (repository.FlagRepository, error) {
	driver := config.StorageDriverPostgres
	if params.Config.Storage != nil && params.Config.Storage.Driver != "" {
		driver = strings.ToLower(params.Config.Storage.Driver)
	}

	switch driver {
	case config.StorageDriverMemory:
		params.Logger.Info("Using in-memory flag repository")

		return memory.NewFlagRepository(), nil
	case config.StorageDriverPostgres:
		db, err := postgres.New(params)
		if err != nil {
			return nil, err
		}

		return postgres.NewFlagRepository(db), nil
	default:
		return nil, errors.Wrapf(ErrUnknownStorageDriver, "%q", driver)
	}
}

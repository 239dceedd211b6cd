package main

import (
	"github.com/turtacn/patent-litigation-graph/internal/config"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
)

// watchLogLevel applies log.level from configPath to logger whenever the file
// changes. Other settings need a restart.
func watchLogLevel(configPath string, logger logging.Logger) error {
	return config.Watch(configPath,
		func(c *config.Config) {
			if logging.SetLevel(logger, c.Log.Level) {
				logger.Info("Log level reloaded", logging.String("level", c.Log.Level))
			}
		},
		func(err error) {
			logger.Warn("Ignoring invalid config reload", logging.Err(err))
		},
	)
}

//Personal.AI order the ending

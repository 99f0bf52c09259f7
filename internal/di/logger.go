package di

import (
	"os"

	"github.com/defval/di"
	"github.com/getsentry/raven-go"
	"github.com/mono83/slf"
	"github.com/mono83/slf/recievers/statsd"
	"github.com/mono83/slf/wd"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gml/skins/internal/logger"
	"github.com/gml/skins/internal/version"
)

var loggerDiOptions = di.Options(
	di.Provide(newLogger),
	di.Provide(newSentry),
	di.Provide(newStatsReporter),
)

type loggerParams struct {
	di.Inject

	Config *viper.Viper  `di:""`
	Sentry *raven.Client `di:"" optional:"true"`
}

func newLogger(params loggerParams) (*zap.Logger, error) {
	config := params.Config
	config.SetDefault("log.level", "info")
	config.SetDefault("log.format", "console")
	config.SetDefault("log.max_size", 100)
	config.SetDefault("log.max_backups", 5)
	config.SetDefault("log.max_age", 30)

	return logger.New(logger.Config{
		Level:      config.GetString("log.level"),
		Format:     config.GetString("log.format"),
		File:       config.GetString("log.file"),
		MaxSize:    config.GetInt("log.max_size"),
		MaxBackups: config.GetInt("log.max_backups"),
		MaxAge:     config.GetInt("log.max_age"),
	}, params.Sentry)
}

func newSentry(config *viper.Viper) (*raven.Client, error) {
	sentryAddr := config.GetString("sentry.dsn")
	if sentryAddr == "" {
		return nil, nil
	}

	ravenClient, err := raven.New(sentryAddr)
	if err != nil {
		return nil, err
	}

	ravenClient.SetEnvironment("production")
	ravenClient.SetDefaultLoggerName("skins")
	ravenClient.SetRelease(version.Version())

	raven.DefaultClient = ravenClient

	return ravenClient, nil
}

func newStatsReporter(config *viper.Viper) (slf.StatsReporter, error) {
	statsdAddr := config.GetString("statsd.addr")
	if statsdAddr == "" {
		return nil, nil
	}

	hostname, err := os.Hostname()
	if err != nil {
		return nil, err
	}

	config.SetDefault("statsd.prefix", "skins")
	statsdReceiver, err := statsd.NewReceiver(statsd.Config{
		Address:    statsdAddr,
		Prefix:     config.GetString("statsd.prefix") + "." + hostname + ".app.",
		FlushEvery: 1,
	})
	if err != nil {
		return nil, err
	}

	dispatcher := &slf.Dispatcher{}
	dispatcher.AddReceiver(statsdReceiver)

	return wd.Custom("", "", dispatcher), nil
}

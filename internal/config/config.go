package config

import (
	"fmt"
	"time"

	"github.com/finsuite/ledgergateway/pkg/fundingsource"
	"github.com/finsuite/ledgergateway/pkg/mq"
	"github.com/finsuite/ledgergateway/pkg/mysql"
	"github.com/finsuite/ledgergateway/pkg/provider"
	"github.com/spf13/viper"
)

type Config struct {
	API           API                  `mapstructure:"api"`
	Database      mysql.Config         `mapstructure:"database"`
	RabbitMQ      mq.Config            `mapstructure:"rabbitmq"`
	FundingSource fundingsource.Config `mapstructure:"funding_source"`
	Provider      provider.Config      `mapstructure:"provider"`
	Loan          Loan                 `mapstructure:"loan"`
	Refund        Refund               `mapstructure:"refund"`
	Sweep         Sweep                `mapstructure:"sweep"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Loan struct {
	EligibilityLimit int64         `mapstructure:"eligibility_limit"`
	Term             time.Duration `mapstructure:"term"`
}

type Refund struct {
	PublishInterval time.Duration `mapstructure:"publish_interval"`
	BatchSize       int           `mapstructure:"batch_size"`
}

// Sweep drives the pending-record poller. MinAge keeps the sweeper off
// records an in-flight submission is still working on.
type Sweep struct {
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
	MinAge    time.Duration `mapstructure:"min_age"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

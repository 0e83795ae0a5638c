// Package configx loads database connection configuration from yaml
// files with environment variable overrides.
package configx

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/warncke/immutable-db/pkg/errorx"
)

// DbConfig - connection configuration. Converted to the opaque params
// map handed to the driver, plus the wrapper's own connection options.
type DbConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	Database       string `mapstructure:"database" validate:"required"`
	Charset        string `mapstructure:"charset"`
	ConnectionName string `mapstructure:"connection-name"`
	ConnectionNum  int    `mapstructure:"connection-num"`
	InstanceId     string `mapstructure:"instance-id"`
}

// LoadDbConfig reads the configuration from the given yaml file and the
// environment. Environment variables take precedence over file values,
// with dots and dashes in keys mapped to underscores.
func LoadDbConfig(configFilePath string) (*DbConfig, error) {
	v := viper.New()

	v.SetConfigFile(configFilePath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", configFilePath)
	}

	config := &DbConfig{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "unable to decode into config struct")
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	if config.Port == 0 {
		config.Port = 3306
	}

	return config, nil
}

// validateConfig - apply struct tag validation, reporting every failed
// field in one error.
func validateConfig(config *DbConfig) error {
	err := validator.New().Struct(config)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.Wrap(err, "error validating config")
	}

	failedFields := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		failedFields = append(failedFields, fieldError.StructNamespace()+" "+fieldError.Tag())
	}

	return errorx.NewInvalidArgumentError("invalid db config: %s", strings.Join(failedFields, ", "))
}

// ConnectionParams - the opaque params map passed verbatim to the
// driver.
func (c *DbConfig) ConnectionParams() map[string]any {
	params := map[string]any{
		"host":     c.Host,
		"port":     c.Port,
		"user":     c.User,
		"password": c.Password,
		"db":       c.Database,
	}

	if c.Charset != "" {
		params["charset"] = c.Charset
	}

	return params
}

// ConnectionOptions - the wrapper's connection options, with the given
// log client attached when non-nil.
func (c *DbConfig) ConnectionOptions(logClient any) map[string]any {
	options := map[string]any{}

	if c.ConnectionName != "" {
		options["connectionName"] = c.ConnectionName
	}

	if c.ConnectionNum != 0 {
		options["connectionNum"] = c.ConnectionNum
	}

	if logClient != nil {
		options["logClient"] = logClient
	}

	return options
}

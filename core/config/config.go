// Package config loads and validates the shell's YAML configuration.
package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

// ConfigurationName is the file name searched for in the config directory.
const ConfigurationName = "config.yaml"

// Configuration holds the user-tunable parts of the shell. Everything has a
// working default; a missing config file is not an error.
type Configuration struct {
	// Prompt template. \w expands to the working directory (with the home
	// directory abbreviated to ~).
	Prompt string `json:"prompt" validate:"required"`

	// HistoryFile persists line history across sessions. Empty disables
	// persistence. A leading ~ is expanded against $HOME.
	HistoryFile string `json:"history_file"`

	// Pager is tried when a pipeline ends in the reserved pager command and
	// $PAGER is unset, before falling back to less and more.
	Pager string `json:"pager"`

	// Color enables prompt coloring.
	Color bool `json:"color"`

	// TimeReports enables the elapsed-time line after foreground pipelines.
	TimeReports bool `json:"time_reports"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

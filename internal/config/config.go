package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/neirolis/qanalytics-go"
	"github.com/neirolis/qanalytics-go/internal/logger"
)

const (
	DefaultEndpoint = "/gps_test/service.asmx"
	DefaultMethod   = "WM_INS_REPORTE_PUNTO_A_PUNTO"
	DefaultListen   = ":8080"
)

type (
	// Conf contains the command line settings
	Conf struct {
		QAnalytics QAnalytics `yaml:"qanalytics"`
		Request    Request    `yaml:"request"`
		Mock       Mock       `yaml:"mock"`
	}

	QAnalytics struct {
		User      string `yaml:"user"`
		Password  string `yaml:"password"`
		Timezone  string `yaml:"timezone"`
		Host      string `yaml:"host"`
		Protocol  string `yaml:"protocol"`
		Namespace string `yaml:"namespace"`
	}

	Request struct {
		Endpoint string `yaml:"endpoint"`
		Method   string `yaml:"method"`
	}

	Mock struct {
		Listen string `yaml:"listen"`
	}
)

// GetConfig decodes the YAML file at configPath into cnf and fills the
// defaults. A missing file is reported with an error matching os.ErrNotExist
// after the defaults have been applied.
func GetConfig(configPath string, cnf *Conf) error {
	logger.Debug("Loading configuration", configPath)
	defer cnf.setDefaults()

	input, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer input.Close()

	if err := yaml.NewDecoder(input).Decode(cnf); err != nil {
		return fmt.Errorf("decode %s: %w", configPath, err)
	}
	return nil
}

func (cnf *Conf) setDefaults() {
	if cnf.Request.Endpoint == "" {
		cnf.Request.Endpoint = DefaultEndpoint
	}
	if cnf.Request.Method == "" {
		cnf.Request.Method = DefaultMethod
	}
	if cnf.Mock.Listen == "" {
		cnf.Mock.Listen = DefaultListen
	}
}

// IsNotExist reports whether err comes from a missing config file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// ClientParams maps the qanalytics section onto client parameters.
// Empty values keep the client defaults.
func (cnf *Conf) ClientParams() qanalytics.ClientParams {
	return qanalytics.ClientParams{
		User:      cnf.QAnalytics.User,
		Password:  cnf.QAnalytics.Password,
		Timezone:  cnf.QAnalytics.Timezone,
		Host:      cnf.QAnalytics.Host,
		Protocol:  cnf.QAnalytics.Protocol,
		Namespace: cnf.QAnalytics.Namespace,
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/neirolis/qanalytics-go/internal/config"
	"github.com/neirolis/qanalytics-go/internal/logger"
)

var (
	// Global flags
	configFile    string
	logConfigFile string
	debug         bool
	user          string
	password      string

	cnf     = &config.Conf{}
	logFile *os.File
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "qanalytics",
	Short: "QAnalytics reporting service client",
	Long: `qanalytics sends telemetry reports to the QAnalytics SOAP service
and can run a local imitation of that service for testing.

Settings are read from the YAML file given by --config; --user and
--password override the credentials stored there.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logFile = logger.InitLogger(debug, logConfigFile)

		if err := config.GetConfig(configFile, cnf); err != nil {
			if !config.IsNotExist(err) {
				logger.Crit("Error while loading config! ", err)
			}
			logger.Info("Config", configFile, "not found, using defaults")
		}

		if user != "" {
			cnf.QAnalytics.User = user
		}
		if password != "" {
			cnf.QAnalytics.Password = password
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			_ = logFile.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./config/config.yml", "settings file")
	rootCmd.PersistentFlags().StringVar(&logConfigFile, "log-config", "", "logger settings file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print requests and responses")
	rootCmd.PersistentFlags().StringVarP(&user, "user", "u", "", "service user")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "service password")

	rootCmd.AddCommand(sendCmd, mockCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package cmd holds the citygen CLI's cobra/viper command tree, grounded on
// the pack's watercolormap CLI shape (persistent flags bound through viper,
// config file + env overrides, logrus for output).
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "citygen",
	Short: "Procedural city-geometry generator",
	Long: `citygen consumes city parameters and designer-placed axioms and
produces a water network, road hierarchy, districts, block polygons, lots
and building sites, exported as a single JSON document.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./citygen.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("citygen")
	}

	viper.SetEnvPrefix("CITYGEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}

	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}

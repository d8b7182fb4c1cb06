// Copyright © 2026 The tempchart Authors

package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/grifmax/tempchart/aggregator"
	"github.com/grifmax/tempchart/data"
)

var cfgFile string
var verbose bool

// This represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "tempchart",
	Short: "Temperature history charts",
	Long: `tempchart reads the temperature history kept by a sensor controller,
averages it into time buckets and draws it as a line chart per sensor.

The chart can be printed once, served over HTTP together with Prometheus
metrics, or relayed to an MQTT broker. The raw history can also be recorded
into a database and charted from there.`,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		jww.ERROR.Println(err)
		os.Exit(-1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is tempchart.yaml)")
	RootCmd.PersistentFlags().String("device", "http://localhost", "Base URL of the sensor controller")
	RootCmd.PersistentFlags().String("source", "device", "History source, one of [device, database]")
	RootCmd.PersistentFlags().String("period", string(aggregator.Period24h), "Chart period, one of ["+periodList()+"]")
	RootCmd.PersistentFlags().String("broker", "tcp://localhost:1883", "MQTT Server")
	RootCmd.PersistentFlags().String("topic", "tempchart", "MQTT topic prefix")
	RootCmd.PersistentFlags().String("database", "tempchart.db", "Database")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	dbdrivers := data.DBDrivers()
	if len(dbdrivers) > 1 {
		RootCmd.PersistentFlags().String("dbDriver", "sqlite3", "Database Driver, one of ["+strings.Join(dbdrivers, ", ")+"]")
	} else {
		viper.SetDefault("dbDriver", "sqlite3")
	}
	viper.BindPFlags(RootCmd.PersistentFlags())

	viper.SetDefault("deviceTimeout", "10s")
	viper.SetDefault("deviceRetries", 2)
	viper.SetDefault("refresh", "5s")
	viper.SetDefault("timezone", "")
	viper.SetDefault("correction", false)
	viper.SetDefault("units", map[string]string{
		"temperature": "C",
	})
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if verbose {
		jww.SetStdoutThreshold(jww.LevelTrace)
	}

	if cfgFile != "" { // enable ability to specify config file via flag
		viper.SetConfigFile(cfgFile)
	}

	viper.SetConfigName("tempchart") // name of config file (without extension)
	viper.AddConfigPath("/etc/tempchart/")
	viper.AddConfigPath("$HOME/.tempchart/")
	viper.AddConfigPath(".")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		jww.DEBUG.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func periodList() string {
	names := make([]string, 0, len(aggregator.Periods()))
	for _, p := range aggregator.Periods() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

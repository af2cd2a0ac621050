package main

import (
	"fmt"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	statforecast "github.com/forecastlab/go-statforecast"
	"github.com/forecastlab/go-statforecast/arima"
	"github.com/forecastlab/go-statforecast/ets"
	"github.com/forecastlab/go-statforecast/timedataset"
)

// profiler holds the active CPU profile when --profile is set.
var profiler interface{ Stop() }

var rootCmd = &cobra.Command{
	Use:   "statforecast",
	Short: "Fit forecasting models to CSV time series",
	Long: `statforecast fits exponential smoothing or ARIMA models to univariate
time series loaded from CSV and generates forecasts with prediction
intervals and accuracy reports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		if viper.GetBool("profile") {
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

func init() {
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(accuracyCmd)

	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("method", "auto", "Forecast method: ets or arima or auto")
	rootCmd.PersistentFlags().Int("period", 0, "Seasonal period in observations (0 = non-seasonal)")
	rootCmd.PersistentFlags().String("fill", "interpolate", "Missing value policy: none, forward, interpolate or trim")
	rootCmd.PersistentFlags().String("time-column", "ds", "CSV column holding timestamps")
	rootCmd.PersistentFlags().String("value-column", "y", "CSV column holding observations")
	rootCmd.PersistentFlags().String("key-column", "", "CSV column grouping rows into separate series")
	rootCmd.PersistentFlags().String("time-format", "2006-01-02", "Go layout for parsing timestamps")
	rootCmd.PersistentFlags().Bool("profile", false, "Enable CPU profiling for this run")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file, %w", err)
		}
	}
	viper.SetEnvPrefix("STATFORECAST")
	viper.AutomaticEnv()
	return nil
}

// csvOptions assembles CSV loading options from the bound flags.
func csvOptions() *timedataset.CSVOptions {
	opt := timedataset.NewDefaultCSVOptions()
	opt.TimeColumn = viper.GetString("time-column")
	opt.ValueColumn = viper.GetString("value-column")
	opt.KeyColumn = viper.GetString("key-column")
	opt.TimeFormat = viper.GetString("time-format")
	return opt
}

// forecasterOptions assembles forecaster options from the bound flags.
func forecasterOptions() (*statforecast.Options, error) {
	opt := statforecast.NewDefaultOptions()
	opt.Method = statforecast.Method(strings.ToLower(viper.GetString("method")))

	switch strings.ToLower(viper.GetString("fill")) {
	case "none":
		opt.FillPolicy = timedataset.FillNone
	case "forward":
		opt.FillPolicy = timedataset.FillForward
	case "interpolate":
		opt.FillPolicy = timedataset.FillInterpolate
	case "trim":
		opt.FillPolicy = timedataset.FillTrim
	default:
		return nil, fmt.Errorf("unknown fill policy %q, %w", viper.GetString("fill"), timedataset.ErrUnknownFillPolicy)
	}

	if period := viper.GetInt("period"); period >= 2 {
		etsOpt := ets.NewDefaultOptions()
		etsOpt.Trend = ets.ComponentAdditive
		etsOpt.Seasonal = ets.ComponentAdditive
		etsOpt.Period = period
		opt.ETS = etsOpt

		autoOpt := arima.NewDefaultAutoOptions()
		autoOpt.Period = period
		opt.Auto = autoOpt
	}
	return opt, nil
}

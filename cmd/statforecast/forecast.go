package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	statforecast "github.com/forecastlab/go-statforecast"
	"github.com/forecastlab/go-statforecast/timedataset"
)

var errNoForecastInput = errors.New("either a csv path or --model is required")

var forecastCmd = &cobra.Command{
	Use:   "forecast [csv-path]",
	Short: "Generate a forecast from a CSV series or a saved model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		f, err := loadForecaster(args)
		if err != nil {
			return err
		}

		horizon := viper.GetInt("horizon")
		res, err := f.Forecast(horizon)
		if err != nil {
			return err
		}

		if plotPath := viper.GetString("plot"); plotPath != "" && f.TrainingData() != nil {
			if err := f.PlotFit(plotPath, &statforecast.PlotOpts{HorizonCnt: horizon}); err != nil {
				return err
			}
			fmt.Printf("wrote plot to %s\n", plotPath)
		}
		return renderForecastTable(res)
	},
}

func init() {
	forecastCmd.Flags().Int("horizon", 10, "Number of steps to forecast")
	forecastCmd.Flags().String("model", "", "Path to a model JSON written by fit")
	forecastCmd.Flags().String("plot", "", "Optional path to write an HTML plot")
	if err := viper.BindPFlags(forecastCmd.Flags()); err != nil {
		panic(err)
	}
}

// loadForecaster restores a saved model when --model is set, otherwise fits
// the CSV series given as the positional argument.
func loadForecaster(args []string) (*statforecast.Forecaster, error) {
	if modelPath := viper.GetString("model"); modelPath != "" {
		file, err := os.Open(modelPath)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		model, err := statforecast.ReadModelJSON(file)
		if err != nil {
			return nil, err
		}
		return statforecast.NewFromModel(model)
	}
	if len(args) == 0 {
		return nil, errNoForecastInput
	}

	opt, err := forecasterOptions()
	if err != nil {
		return nil, err
	}
	td, err := timedatasetFromCSV(args[0])
	if err != nil {
		return nil, err
	}
	f, err := statforecast.New(opt)
	if err != nil {
		return nil, err
	}
	if err := f.Fit(td.T, td.Y); err != nil {
		return nil, err
	}
	return f, nil
}

func timedatasetFromCSV(path string) (*timedataset.TimeDataset, error) {
	return timedataset.LoadCSV(path, csvOptions())
}

func renderForecastTable(res *statforecast.Results) error {
	table := tablewriter.NewWriter(os.Stdout)

	header := []string{"Time", "Forecast"}
	for _, iv := range res.Intervals {
		header = append(header,
			fmt.Sprintf("Lower %.0f%%", iv.Level*100),
			fmt.Sprintf("Upper %.0f%%", iv.Level*100),
		)
	}
	table.Header(header)

	for i := range res.Forecast {
		row := []string{timeLabel(res.T, i), formatScore(res.Forecast[i])}
		for _, iv := range res.Intervals {
			row = append(row, formatScore(iv.Lower[i]), formatScore(iv.Upper[i]))
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func timeLabel(t []time.Time, i int) string {
	if i < len(t) {
		return t[i].Format(time.RFC3339)
	}
	return fmt.Sprintf("t+%d", i+1)
}

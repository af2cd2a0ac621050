package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	statforecast "github.com/forecastlab/go-statforecast"
)

var fitCmd = &cobra.Command{
	Use:   "fit [csv-path]",
	Short: "Fit a forecast model to a CSV series and write the model JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		opt, err := forecasterOptions()
		if err != nil {
			return err
		}

		td, err := timedatasetFromCSV(args[0])
		if err != nil {
			return err
		}

		f, err := statforecast.New(opt)
		if err != nil {
			return err
		}
		if err := f.Fit(td.T, td.Y); err != nil {
			return err
		}

		model, err := f.Model()
		if err != nil {
			return err
		}
		outPath := viper.GetString("fit-output")
		file, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := model.WriteJSON(file); err != nil {
			return err
		}
		fmt.Printf("wrote %s model to %s\n", f.Method(), outPath)

		scores, err := f.Scores()
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Metric", "Value"})
		rows := [][]string{
			{"MAE", formatScore(scores.MAE)},
			{"RMSE", formatScore(scores.RMSE)},
			{"MAPE", formatScore(scores.MAPE)},
			{"SMAPE", formatScore(scores.SMAPE)},
			{"MASE", formatScore(scores.MASE)},
			{"R2", formatScore(scores.R2)},
		}
		for _, row := range rows {
			if err := table.Append(row); err != nil {
				return err
			}
		}
		return table.Render()
	},
}

func init() {
	fitCmd.Flags().String("fit-output", "model.json", "Path to write the fitted model JSON")
	if err := viper.BindPFlags(fitCmd.Flags()); err != nil {
		panic(err)
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

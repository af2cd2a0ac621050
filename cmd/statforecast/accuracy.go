package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	statforecast "github.com/forecastlab/go-statforecast"
	"github.com/forecastlab/go-statforecast/score"
	"github.com/forecastlab/go-statforecast/timedataset"
)

var accuracyCmd = &cobra.Command{
	Use:   "accuracy [csv-path]",
	Short: "Score forecasts against a holdout split of the series",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		holdout := viper.GetInt("holdout")

		if viper.GetBool("grouped") {
			return runGroupedAccuracy(args[0], holdout)
		}

		td, err := timedatasetFromCSV(args[0])
		if err != nil {
			return err
		}
		summary, err := holdoutAccuracy(td, holdout)
		if err != nil {
			return err
		}
		return renderAccuracyTable(map[string]*score.Summary{"": summary})
	},
}

func init() {
	accuracyCmd.Flags().Int("holdout", 10, "Number of trailing observations held out for scoring")
	accuracyCmd.Flags().Bool("grouped", false, "Score each series of a key-grouped CSV separately")
	if err := viper.BindPFlags(accuracyCmd.Flags()); err != nil {
		panic(err)
	}
}

func runGroupedAccuracy(path string, holdout int) error {
	coll, err := timedataset.LoadGroupedCSV(path, csvOptions())
	if err != nil {
		return err
	}

	summaries := make(map[string]*score.Summary, coll.Len())
	if err := coll.Apply(func(key string, td *timedataset.TimeDataset) error {
		summary, err := holdoutAccuracy(td, holdout)
		if err != nil {
			return fmt.Errorf("series %q, %w", key, err)
		}
		summaries[key] = summary
		return nil
	}); err != nil {
		return err
	}
	return renderAccuracyTable(summaries)
}

func holdoutAccuracy(td *timedataset.TimeDataset, holdout int) (*score.Summary, error) {
	train, test, err := td.TrainTestSplit(td.Len() - holdout)
	if err != nil {
		return nil, err
	}

	opt, err := forecasterOptions()
	if err != nil {
		return nil, err
	}
	f, err := statforecast.New(opt)
	if err != nil {
		return nil, err
	}
	if err := f.Fit(train.T, train.Y); err != nil {
		return nil, err
	}
	return f.Evaluate(test.T, test.Y)
}

func renderAccuracyTable(summaries map[string]*score.Summary) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Series", "MAE", "RMSE", "MAPE", "SMAPE", "MASE", "R2"})

	for _, key := range sortedKeys(summaries) {
		s := summaries[key]
		label := key
		if label == "" {
			label = "series"
		}
		row := []string{
			label,
			formatScore(s.MAE),
			formatScore(s.RMSE),
			formatScore(s.MAPE),
			formatScore(s.SMAPE),
			formatScore(s.MASE),
			formatScore(s.R2),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func sortedKeys(summaries map[string]*score.Summary) []string {
	keys := make([]string, 0, len(summaries))
	for key := range summaries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

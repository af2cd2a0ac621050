package statforecast

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/forecastlab/go-statforecast/timedataset"
)

var ErrCannotInferInterval = errors.New("cannot infer interval from training data time")

// LineTSeries generates an echart multi-line chart for some arbitrary
// time/value combination. The input y is a slice of series that must have
// the same length as the input time slice.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	lineData := make([][]opts.LineData, len(y))
	for i := 0; i < len(y); i++ {
		lineData[i] = make([]opts.LineData, 0, len(y[i]))
		for j := 0; j < len(y[i]); j++ {
			if math.IsNaN(y[i][j]) {
				lineData[i] = append(lineData[i], opts.LineData{Value: nil})
				continue
			}
			lineData[i] = append(lineData[i], opts.LineData{Value: y[i][j]})
		}
	}

	line = line.SetXAxis(t)
	for i, series := range seriesName {
		line = line.AddSeries(series, lineData[i])
	}
	return line
}

// LineForecast generates an echart line chart plotting the training data
// followed by the forecast with its widest prediction interval.
func LineForecast(trainingData *timedataset.TimeDataset, res *Results) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Forecast",
			},
		),
	)

	n := trainingData.Len()
	h := len(res.Forecast)

	t := make([]time.Time, 0, n+h)
	t = append(t, trainingData.T...)
	t = append(t, res.T...)

	actual := make([]opts.LineData, 0, n+h)
	forecast := make([]opts.LineData, 0, n+h)
	for i := 0; i < n; i++ {
		actual = append(actual, opts.LineData{Value: trainingData.Y[i]})
		forecast = append(forecast, opts.LineData{Value: nil})
	}
	for i := 0; i < h; i++ {
		actual = append(actual, opts.LineData{Value: nil})
		forecast = append(forecast, opts.LineData{Value: res.Forecast[i]})
	}

	line.SetXAxis(t).
		AddSeries("Actual", actual).
		AddSeries("Forecast", forecast)

	if len(res.Intervals) > 0 {
		widest := res.Intervals[0]
		for _, iv := range res.Intervals[1:] {
			if iv.Level > widest.Level {
				widest = iv
			}
		}
		upper := make([]opts.LineData, 0, n+h)
		lower := make([]opts.LineData, 0, n+h)
		for i := 0; i < n; i++ {
			upper = append(upper, opts.LineData{Value: nil})
			lower = append(lower, opts.LineData{Value: nil})
		}
		for i := 0; i < h; i++ {
			upper = append(upper, opts.LineData{Value: widest.Upper[i]})
			lower = append(lower, opts.LineData{Value: widest.Lower[i]})
		}
		line.AddSeries(fmt.Sprintf("Upper %.0f%%", widest.Level*100), upper).
			AddSeries(fmt.Sprintf("Lower %.0f%%", widest.Level*100), lower)
	}
	return line
}

// PlotOpts sets the horizon to forecast out. By default 10% of the training
// size is used with the training interval between points.
type PlotOpts struct {
	HorizonCnt      int
	HorizonInterval time.Duration
}

// PlotFit uses the Apache Echarts library to generate an html file showing
// the training data, the forecast with intervals, and the fit residual.
func (f *Forecaster) PlotFit(path string, opt *PlotOpts) error {
	if !f.trained {
		return ErrUntrainedForecaster
	}
	td := f.TrainingData()
	if td.Len() < 2 {
		return ErrCannotInferInterval
	}

	horizonCnt := td.Len() / 10
	if opt != nil && opt.HorizonCnt > 0 {
		horizonCnt = opt.HorizonCnt
	}
	if horizonCnt < 1 {
		horizonCnt = 1
	}

	res, err := f.Forecast(horizonCnt)
	if err != nil {
		return fmt.Errorf("unable to predict with horizon, %w", err)
	}
	if len(res.T) == 0 {
		interval := td.T[1].Sub(td.T[0])
		if opt != nil && opt.HorizonInterval > 0 {
			interval = opt.HorizonInterval
		}
		lastTime := td.T[td.Len()-1]
		res.T = make([]time.Time, 0, horizonCnt)
		for i := 1; i <= horizonCnt; i++ {
			res.T = append(res.T, lastTime.Add(time.Duration(i)*interval))
		}
	}

	page := components.NewPage()
	page.AddCharts(
		LineForecast(td, res),
		LineTSeries(
			"Fit Residual",
			[]string{"Residual"},
			td.T,
			[][]float64{f.Residuals()},
		),
	)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}

package analytics

import (
	"math"

	"fintrack/internal/core"
)

const (
	// ForecastWindow is the number of trailing months the forecast averages.
	ForecastWindow = 6
	forecastGrowth = 1.05
)

// ForecastSeries holds monthly expense actuals and the naive prediction
// aligned with them. Values are whole currency units.
type ForecastSeries struct {
	Labels         []core.MonthKey
	Actual         []int64
	Predicted      []int64
	NextPrediction int64
}

// Forecast projects next month's expenses as the window average plus 5%.
// The predicted series is the actuals shifted left by one month with the
// projection appended. history must be chronological.
func Forecast(history []core.MonthlySpend) ForecastSeries {
	series := ForecastSeries{
		Labels:    make([]core.MonthKey, 0, len(history)),
		Actual:    make([]int64, 0, len(history)),
		Predicted: make([]int64, 0, len(history)),
	}
	if len(history) == 0 {
		return series
	}

	var sum int64
	for _, m := range history {
		v := m.Total.IntPart()
		series.Labels = append(series.Labels, m.Month)
		series.Actual = append(series.Actual, v)
		sum += v
	}
	avg := float64(sum) / float64(len(series.Actual))
	series.NextPrediction = int64(math.RoundToEven(avg * forecastGrowth))

	series.Predicted = append(series.Predicted, series.Actual[1:]...)
	series.Predicted = append(series.Predicted, series.NextPrediction)
	return series
}

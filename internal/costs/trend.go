package costs

import "math"

const (
	// minTrendMean is the series mean below which no trend is reported.
	minTrendMean = 0.01
	// minTrendPercent is the per-period change below which a series is stable.
	minTrendPercent = 0.1
)

// EstimateTrend computes the trend of a per-period cost series.
func EstimateTrend(points []CostPoint) Trend {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Cost.InexactFloat64()
	}
	return TrendOf(values)
}

// TrendOf fits an ordinary least-squares line of value against period index and
// reports its slope as a percentage of the series mean.
func TrendOf(values []float64) Trend {
	stable := Trend{Direction: TrendStable}
	if len(values) < 2 {
		return stable
	}

	n := float64(len(values))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return stable
	}
	slope := (n*sumXY - sumX*sumY) / denominator

	mean := sumY / n
	if math.Abs(mean) < minTrendMean {
		return stable
	}
	pct := slope / mean * 100
	if math.Abs(pct) < minTrendPercent {
		return stable
	}
	if pct > 0 {
		return Trend{Direction: TrendUp, PercentagePerPeriod: pct}
	}
	return Trend{Direction: TrendDown, PercentagePerPeriod: math.Abs(pct)}
}

// StandardDeviation returns the population standard deviation of values.
func StandardDeviation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// MinMax returns the highest and lowest cost points. The first occurrence wins on ties.
func MinMax(points []CostPoint) (maxPoint, minPoint CostPoint) {
	if len(points) == 0 {
		return CostPoint{}, CostPoint{}
	}
	maxPoint, minPoint = points[0], points[0]
	for _, p := range points[1:] {
		if p.Cost.GreaterThan(maxPoint.Cost) {
			maxPoint = p
		}
		if p.Cost.LessThan(minPoint.Cost) {
			minPoint = p
		}
	}
	return maxPoint, minPoint
}

package analytics

import (
	"cmp"
	"math"
	"slices"

	"github.com/rxtech-lab/argo-analytics/internal/types"
	"github.com/rxtech-lab/argo-analytics/pkg/errors"
)

const (
	profileBuckets     = 50
	valueAreaShare     = 0.7
	volumeScale        = 1000.0
	levelsPerBucketRes = 10.0
)

// EstimateVolumeProfile approximates a volume-by-price distribution from OHLC candles.
//
// The feed has no volume, so each candle is weighted by (high-low)*|close-open|*1000
// and that weight is spread evenly over points across its [low, high] range. Each
// point is snapped to the nearest of 50 equal-width buckets.
//
// The value area is grown from the highest-volume bucket down while the accumulated
// volume is still below 70% of the total, checked before each bucket is added. It may
// therefore end one bucket past the 70% mark. Buckets with equal volume keep the
// order in which they were first filled, which also decides the POC on a tie.
func EstimateVolumeProfile(candles []types.Candle) (types.VolumeProfileResult, error) {
	if candles == nil {
		return types.VolumeProfileResult{}, errors.New(errors.ErrCodeInvalidInput, "candles must not be nil")
	}

	if len(candles) == 0 {
		return types.VolumeProfileResult{Profile: []types.PriceLevel{}}, nil
	}

	low, high := priceSpan(candles)
	span := high - low

	if span == 0 {
		return types.VolumeProfileResult{
			POC:           low,
			ValueAreaHigh: low,
			ValueAreaLow:  low,
			Profile:       []types.PriceLevel{{Price: low, Volume: 0}},
		}, nil
	}

	bucketSize := span / profileBuckets
	buckets := newBucketSet()

	for _, candle := range candles {
		candleRange := candle.High - candle.Low
		volume := candleRange * math.Abs(candle.Close-candle.Open) * volumeScale

		levels := max(1, int(math.Floor(candleRange/(bucketSize/levelsPerBucketRes))))
		share := volume / float64(levels+1)

		for i := 0; i <= levels; i++ {
			price := candle.Low + candleRange*float64(i)/float64(levels)
			buckets.add(snapToBucket(price, bucketSize), share)
		}
	}

	byVolume := buckets.levels()
	slices.SortStableFunc(byVolume, func(a, b types.PriceLevel) int {
		return cmp.Compare(b.Volume, a.Volume)
	})

	totalVolume := 0.0
	for _, level := range byVolume {
		totalVolume += level.Volume
	}

	poc := byVolume[0].Price
	valueAreaLow, valueAreaHigh := poc, poc
	target := totalVolume * valueAreaShare
	accumulated := 0.0

	for _, level := range byVolume {
		if accumulated >= target {
			break
		}

		valueAreaLow = math.Min(valueAreaLow, level.Price)
		valueAreaHigh = math.Max(valueAreaHigh, level.Price)
		accumulated += level.Volume
	}

	profile := buckets.levels()
	slices.SortFunc(profile, func(a, b types.PriceLevel) int {
		return cmp.Compare(a.Price, b.Price)
	})

	return types.VolumeProfileResult{
		POC:           poc,
		ValueAreaHigh: valueAreaHigh,
		ValueAreaLow:  valueAreaLow,
		TotalVolume:   totalVolume,
		Profile:       profile,
	}, nil
}

// priceSpan covers every open, high, low and close in the series.
func priceSpan(candles []types.Candle) (low, high float64) {
	low, high = math.Inf(1), math.Inf(-1)

	for _, c := range candles {
		low = min(low, c.Low, c.Open, c.Close)
		high = max(high, c.High, c.Open, c.Close)
	}

	return low, high
}

// snapToBucket rounds half up to the nearest multiple of bucketSize.
func snapToBucket(price, bucketSize float64) float64 {
	return math.Floor(price/bucketSize+0.5) * bucketSize
}

// bucketSet accumulates volume per snapped price and remembers first-fill order.
// Every NaN price shares one bucket, since a map never matches a NaN key, so a
// non-finite candle turns the total into NaN instead of dropping volume.
type bucketSet struct {
	volume    map[float64]float64
	order     []float64
	nanVolume float64
	hasNaN    bool
}

func newBucketSet() *bucketSet {
	return &bucketSet{volume: make(map[float64]float64)}
}

func (b *bucketSet) add(price, volume float64) {
	if math.IsNaN(price) {
		if !b.hasNaN {
			b.hasNaN = true
			b.order = append(b.order, price)
		}

		b.nanVolume += volume

		return
	}

	if _, ok := b.volume[price]; !ok {
		b.order = append(b.order, price)
	}

	b.volume[price] += volume
}

// levels returns a fresh slice in first-fill order.
func (b *bucketSet) levels() []types.PriceLevel {
	levels := make([]types.PriceLevel, 0, len(b.order))
	for _, price := range b.order {
		volume := b.volume[price]
		if math.IsNaN(price) {
			volume = b.nanVolume
		}

		levels = append(levels, types.PriceLevel{Price: price, Volume: volume})
	}

	return levels
}

// Package metrics computes the fixed set of sale statistics with one
// pass over a transaction stream, fanned out to eight concurrent
// reducers.
package metrics

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"foncier/server/internal/domain"
	"foncier/server/internal/models"
)

const numReducers = 8

// Engine runs the fan-out aggregation. BranchBuffer bounds each branch's
// channel; the median reducer additionally materializes its whole branch
// in memory (order statistics cannot be computed without full retention),
// which is the known scaling limit of the design.
type Engine struct {
	logger       *logrus.Logger
	branchBuffer int
}

// NewEngine creates an aggregation engine with the given per-branch
// buffer size.
func NewEngine(logger *logrus.Logger, branchBuffer int) *Engine {
	return &Engine{
		logger:       logger,
		branchBuffer: branchBuffer,
	}
}

// results collects one field per reducer. Each reducer goroutine writes
// only its own field; errgroup.Wait orders those writes before the
// assembly below.
type results struct {
	avgPricePerArea float64
	housePercent    float64
	apartPercent    float64
	avgAmount       float64
	count           int
	avgRooms        float64
	avgConstructed  float64
	avgLand         float64
	median          *float64
}

// Compute derives one Metric from the given transactions. The stream is
// broadcast once to eight reducers running in a scoped task group: if any
// task fails, its siblings are cancelled and a single wrapped error is
// returned with no partial metric. An empty input is not a failure; it
// yields the zeroed metric with an absent median.
func (e *Engine) Compute(ctx context.Context, txs []domain.Transaction) (*models.Metric, error) {
	g, ctx := errgroup.WithContext(ctx)

	fanout := newBroadcaster(numReducers, e.branchBuffer)
	g.Go(func() error {
		return fanout.run(ctx, txs)
	})

	var res results
	reducers := []func(<-chan domain.Transaction) error{
		func(in <-chan domain.Transaction) error { return reduceAvgPricePerArea(in, &res) },
		func(in <-chan domain.Transaction) error { return reduceCategorySplit(in, &res) },
		func(in <-chan domain.Transaction) error { return reduceAvgAmount(in, &res) },
		func(in <-chan domain.Transaction) error { return reduceCount(in, &res) },
		func(in <-chan domain.Transaction) error { return reduceAvgRooms(in, &res) },
		func(in <-chan domain.Transaction) error { return reduceAvgConstructed(in, &res) },
		func(in <-chan domain.Transaction) error { return reduceAvgLand(in, &res) },
		func(in <-chan domain.Transaction) error { return reduceMedian(in, &res) },
	}
	for i, reduce := range reducers {
		reduce := reduce
		in := fanout.branch(i)
		g.Go(func() error { return reduce(in) })
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("metric aggregation failed: %w", err)
	}

	e.logger.WithField("transactions", res.count).Debug("Computed metrics")

	return &models.Metric{
		AveragePrice:               res.avgAmount,
		AveragePricePerSquareMeter: res.avgPricePerArea,
		AverageRoomCount:           res.avgRooms,
		AverageConstructedArea:     res.avgConstructed,
		AverageLandArea:            res.avgLand,
		MedianAmount:               res.median,
		TransactionCount:           res.count,
		HousePercent:               res.housePercent,
		ApartmentPercent:           res.apartPercent,
	}, nil
}

// average guards the empty-input division: the documented default for
// every average reducer is 0.0.
func average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func reduceAvgPricePerArea(in <-chan domain.Transaction, res *results) error {
	var sum float64
	var count int
	for tx := range in {
		if tx.Property.ConstructedArea > 0 {
			sum += tx.Amount / float64(tx.Property.ConstructedArea)
			count++
		}
	}
	res.avgPricePerArea = average(sum, count)
	return nil
}

func reduceCategorySplit(in <-chan domain.Transaction, res *results) error {
	var houses, apartments int
	for tx := range in {
		switch tx.Property.Category {
		case domain.CategoryHouse:
			houses++
		case domain.CategoryApartment:
			apartments++
		}
	}
	total := houses + apartments
	if total > 0 {
		res.housePercent = float64(houses) / float64(total) * 100
		res.apartPercent = float64(apartments) / float64(total) * 100
	}
	return nil
}

func reduceAvgAmount(in <-chan domain.Transaction, res *results) error {
	var sum float64
	var count int
	for tx := range in {
		sum += tx.Amount
		count++
	}
	res.avgAmount = average(sum, count)
	return nil
}

func reduceCount(in <-chan domain.Transaction, res *results) error {
	for range in {
		res.count++
	}
	return nil
}

func reduceAvgRooms(in <-chan domain.Transaction, res *results) error {
	var sum float64
	var count int
	for tx := range in {
		sum += float64(tx.Property.RoomCount)
		count++
	}
	res.avgRooms = average(sum, count)
	return nil
}

func reduceAvgConstructed(in <-chan domain.Transaction, res *results) error {
	var sum float64
	var count int
	for tx := range in {
		sum += float64(tx.Property.ConstructedArea)
		count++
	}
	res.avgConstructed = average(sum, count)
	return nil
}

func reduceAvgLand(in <-chan domain.Transaction, res *results) error {
	var sum float64
	var count int
	for tx := range in {
		sum += float64(tx.Property.LandArea)
		count++
	}
	res.avgLand = average(sum, count)
	return nil
}

// reduceMedian materializes and sorts every amount on its branch: the
// middle element for an odd count, the mean of the two middle elements
// for an even one. The median is absent, not zero, on empty input.
func reduceMedian(in <-chan domain.Transaction, res *results) error {
	var amounts []float64
	for tx := range in {
		amounts = append(amounts, tx.Amount)
	}
	if len(amounts) == 0 {
		return nil
	}

	sort.Float64s(amounts)
	mid := len(amounts) / 2
	var median float64
	if len(amounts)%2 == 1 {
		median = amounts[mid]
	} else {
		median = (amounts[mid-1] + amounts[mid]) / 2
	}
	res.median = &median
	return nil
}

package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-churn-pipeline/internal/model"
)

func batchOf(n int, source model.BatchSource) *model.Batch {
	predictions := make([]model.Prediction, 0, n)
	for i := 0; i < n; i++ {
		predictions = append(predictions, model.Prediction{
			CustomerID:       fmt.Sprintf("CUST_%04d", i+1),
			ChurnProbability: 0.5,
			RiskLevel:        model.RiskMedium,
		})
	}
	return model.NewBatch(predictions, source)
}

func TestResultStoreSetAndCurrent(t *testing.T) {
	s := NewResultStore()
	assert.Nil(t, s.Current())

	first := batchOf(3, model.SourceModel)
	s.Set(first)
	assert.Same(t, first, s.Current())

	second := batchOf(5, model.SourceSimulated)
	s.Set(second)
	assert.Same(t, second, s.Current(), "last write wins")
}

func TestResultStoreClear(t *testing.T) {
	s := NewResultStore()
	s.Set(batchOf(1, model.SourceModel))
	s.Clear()
	assert.Nil(t, s.Current())
}

func TestResultStoreConcurrentReadersSeeCompleteBatches(t *testing.T) {
	s := NewResultStore()
	s.Set(batchOf(10, model.SourceModel))

	stop := make(chan struct{})
	writerDone := make(chan struct{})

	// A writer keeps swapping batches of different sizes.
	go func() {
		defer close(writerDone)
		sizes := []int{10, 50, 100}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				s.Set(batchOf(sizes[i%len(sizes)], model.SourceSimulated))
			}
		}
	}()

	// Readers must always observe an internally consistent batch.
	var readers sync.WaitGroup
	for r := 0; r < 4; r++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for i := 0; i < 2000; i++ {
				batch := s.Current()
				if !assert.NotNil(t, batch) {
					return
				}
				sum := batch.Summary
				assert.Equal(t, len(batch.Predictions), sum.TotalCustomers)
				assert.Equal(t, sum.TotalCustomers, sum.LowRisk+sum.MediumRisk+sum.HighRisk)
			}
		}()
	}

	readers.Wait()
	close(stop)
	<-writerDone
}

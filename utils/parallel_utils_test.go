package utils

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestPartitionMap(t *testing.T) {
	{ // Test PartitionMap
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				maxK := pm.GetBucketDimension(np)
				histo[maxK]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Inverted bucket probe
		for maxIndex := 10; maxIndex < 300; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			for k := 0; k < maxIndex; k++ {
				tryCount, bn, min, max := pm.getBucketWithTryCount(k)
				mmin, mmax := pm.GetBucketRange(bn)
				assert.True(t, k >= min && k < max && min == mmin && max == mmax && tryCount <= 1)
			}
		}
	}
	{ // Groups cover every index exactly once, in order
		pm := NewPartitionMap(3, 10)
		var all []int
		for _, g := range pm.Groups() {
			all = append(all, g...)
		}
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)
		assert.Equal(t, 1, NewPartitionMap(0, 4).ParallelDegree)
	}
}

func TestRunGroups(t *testing.T) {
	{
		var count int64
		groups := NewPartitionMap(4, 100).Groups()
		err := RunGroups(groups, func(worker int, items []int) error {
			atomic.AddInt64(&count, int64(len(items)))
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(100), count)
	}
	{ // All worker errors are reported, in worker order
		errA, errB := errors.New("a"), errors.New("b")
		groups := [][]int{{0}, {1}, {2}}
		err := RunGroups(groups, func(worker int, items []int) error {
			switch worker {
			case 0:
				return errA
			case 2:
				return errB
			}
			return nil
		})
		require.Error(t, err)
		errs := multierr.Errors(err)
		require.Len(t, errs, 2)
		assert.Equal(t, errA, errs[0])
		assert.Equal(t, errB, errs[1])
	}
}

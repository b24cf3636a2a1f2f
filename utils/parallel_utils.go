package utils

import (
	"runtime"
	"sync"
)

var parallelDegree = runtime.NumCPU()

// SetParallelDegree sets the number of go routines used by ParallelFor, zero
// selects runtime.NumCPU()
func SetParallelDegree(procLimit int) {
	if procLimit <= 0 {
		procLimit = runtime.NumCPU()
	}
	parallelDegree = procLimit
}

type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	// This routine splits one dimension into pm.ParallelDegree pieces, with a maximum imbalance of one item
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        int
	)
	remainder = pm.MaxIndex % pm.ParallelDegree
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}

// ParallelRows runs fn(row) for every row in [rowMin, rowMax] (inclusive),
// with the rows split into contiguous buckets, one go routine per bucket.
// It returns only after every row is done, so each call is a stage barrier.
func ParallelRows(rowMin, rowMax int, fn func(row int)) {
	var (
		nRows = rowMax - rowMin + 1
		NP    = parallelDegree
		wg    = sync.WaitGroup{}
	)
	if nRows <= 0 {
		return
	}
	if NP > nRows {
		NP = nRows
	}
	if NP <= 1 {
		for row := rowMin; row <= rowMax; row++ {
			fn(row)
		}
		return
	}
	pm := NewPartitionMap(NP, nRows)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				fn(rowMin + k)
			}
			wg.Done()
		}(np)
	}
	wg.Wait()
}

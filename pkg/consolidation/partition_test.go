package consolidation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptimalWorkerCount(t *testing.T) {
	assert.Equal(t, 10, OptimalWorkerCount(2, 10, 100))
	assert.Equal(t, 30, OptimalWorkerCount(30, 10, 100))
	assert.Equal(t, 100, OptimalWorkerCount(250, 10, 100))
	assert.Equal(t, 1, OptimalWorkerCount(0, 1, 4))
}

func TestDistributeRoundRobin(t *testing.T) {
	got := Distribute([]string{"p0", "p1", "p2", "p3", "p4"}, 2)

	assert.Equal(t, map[int][]string{
		0: {"p0", "p2", "p4"},
		1: {"p1", "p3"},
	}, got)
}

func TestDistributeFewerPartitionsThanWorkers(t *testing.T) {
	got := Distribute([]int{7, 8}, 4)

	assert.Equal(t, map[int][]int{
		0: {7},
		1: {8},
		2: {},
		3: {},
	}, got)
}

func TestDistributeCoversEveryPartitionOnce(t *testing.T) {
	for _, numPartitions := range []int{0, 1, 5, 30, 101} {
		for _, numWorkers := range []int{-1, 0, 1, 3, 10, 100} {
			t.Run(fmt.Sprintf("%d_partitions_%d_workers", numPartitions, numWorkers), func(t *testing.T) {
				partitions := make([]int, numPartitions)
				for i := range partitions {
					partitions[i] = i
				}

				assignment := Distribute(partitions, numWorkers)

				wantWorkers := max(numWorkers, 1)
				assert.Len(t, assignment, wantWorkers)

				seen := make(map[int]int)
				for _, assigned := range assignment {
					for _, p := range assigned {
						seen[p]++
					}
				}

				assert.Len(t, seen, numPartitions)

				for p, n := range seen {
					assert.Equal(t, 1, n, "partition %d assigned %d times", p, n)
				}
			})
		}
	}
}

/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package consolidation

// OptimalWorkerCount clamps the partition count into [minWorkers, maxWorkers].
func OptimalWorkerCount(numPartitions, minWorkers, maxWorkers int) int {
	if numPartitions < minWorkers {
		return minWorkers
	}

	if numPartitions > maxWorkers {
		return maxWorkers
	}

	return numPartitions
}

// Distribute assigns partitions[i] to worker i mod numWorkers. Every worker
// index in [0, numWorkers) is present in the result, possibly with no
// partitions. numWorkers below one is treated as one.
func Distribute[P any](partitions []P, numWorkers int) map[int][]P {
	if numWorkers < 1 {
		numWorkers = 1
	}

	assignment := make(map[int][]P, numWorkers)
	for w := 0; w < numWorkers; w++ {
		assignment[w] = []P{}
	}

	for i, p := range partitions {
		w := i % numWorkers
		assignment[w] = append(assignment[w], p)
	}

	return assignment
}

package dataset

import (
	"fmt"
	"math"
	"math/rand"
)

// Split partitions rows into disjoint train and test subsets. The shuffle is
// driven solely by seed, so identical inputs always yield identical splits.
// The test set holds round(testSize*N) rows; train holds the remainder.
func Split(rows []LabeledRow, testSize float64, seed int64) (train, test []LabeledRow, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %f", testSize)
	}
	n := len(rows)
	nTest := int(math.Round(testSize * float64(n)))
	if nTest == 0 || nTest == n {
		return nil, nil, fmt.Errorf("split of %d rows at %.2f leaves an empty subset", n, testSize)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	test = make([]LabeledRow, 0, nTest)
	train = make([]LabeledRow, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, rows[idx])
		} else {
			train = append(train, rows[idx])
		}
	}
	return train, test, nil
}

package vector

import "sync"

// DefaultDedupThreshold is the cosine-similarity cutoff above which two
// query embeddings are considered duplicates.
const DefaultDedupThreshold = 0.86

// Similarity pairs a candidate's index in the compared set with its
// cosine-similarity score against the query.
type Similarity struct {
	Index int
	Score float64
}

// FindSimilar compares query against every vector in set concurrently and
// returns every pair scoring at or above threshold. Order is unspecified.
func FindSimilar(query []float32, set [][]float32, threshold float64) []Similarity {
	if len(set) == 0 {
		return nil
	}

	results := make([]Similarity, len(set))
	hit := make([]bool, len(set))

	const workerCap = 8
	workers := workerCap
	if workers > len(set) {
		workers = len(set)
	}

	var wg sync.WaitGroup
	jobs := make(chan int, len(set))
	for i := range set {
		jobs <- i
	}
	close(jobs)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				score := CosineSimilarity(query, set[i])
				if score >= threshold {
					results[i] = Similarity{Index: i, Score: score}
					hit[i] = true
				}
			}
		}()
	}
	wg.Wait()

	out := make([]Similarity, 0, len(set))
	for i, ok := range hit {
		if ok {
			out = append(out, results[i])
		}
	}
	return out
}

// DedupQueries returns the indices into newVecs that are neither
// near-duplicates of any vector in existing nor of any earlier-accepted
// vector within newVecs, at the given cosine-similarity threshold.
//
// The cross-check against existing is embarrassingly parallel and runs
// concurrently. The self-check within newVecs must be sequential: each
// candidate's "already accepted" set depends on decisions made for earlier
// indices, so the result is deterministic only if evaluated in order.
func DedupQueries(newVecs, existing [][]float32, threshold float64) []int {
	if len(newVecs) == 0 {
		return nil
	}

	tooCloseToExisting := make([]bool, len(newVecs))
	if len(existing) > 0 {
		var wg sync.WaitGroup
		workers := 8
		if workers > len(newVecs) {
			workers = len(newVecs)
		}
		jobs := make(chan int, len(newVecs))
		for i := range newVecs {
			jobs <- i
		}
		close(jobs)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					for _, e := range existing {
						if CosineSimilarity(newVecs[i], e) >= threshold {
							tooCloseToExisting[i] = true
							break
						}
					}
				}
			}()
		}
		wg.Wait()
	}

	accepted := make([]int, 0, len(newVecs))
	acceptedVecs := make([][]float32, 0, len(newVecs))
	for i, v := range newVecs {
		if tooCloseToExisting[i] {
			continue
		}
		isDup := false
		for _, av := range acceptedVecs {
			if CosineSimilarity(v, av) >= threshold {
				isDup = true
				break
			}
		}
		if isDup {
			continue
		}
		accepted = append(accepted, i)
		acceptedVecs = append(acceptedVecs, v)
	}
	return accepted
}

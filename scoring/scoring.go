// scoring/scoring.go
package scoring

import "math"

// Points converts a pair's historical vote totals and the player's
// choice into a point value for one round.
//
// Difficulty is how far historical voters were from an even split: 0
// when votes ran 50/50, 0.5 when everyone agreed. A correct answer is
// worth 100 base points plus up to 200 difficulty points; an incorrect
// answer is always worth 0. With no history the pair counts as
// maximally ambiguous.
//
// The vote totals are the pre-round counts: the current player's own
// vote never feeds the percentage used to score that same round.
func Points(realVotes, generatedVotes int, votedForReal bool) int {
	if !votedForReal {
		return 0
	}

	totalVotes := realVotes + generatedVotes
	realVotePercentage := 0.5
	if totalVotes > 0 {
		realVotePercentage = float64(realVotes) / float64(totalVotes)
	}

	difficulty := math.Abs(0.5 - realVotePercentage)
	return int(math.Round(100 + difficulty*400))
}

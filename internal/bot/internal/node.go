package internal

import (
	"math"

	"konkan/internal/domain"
)

// discardNode is one root-level arm of the discard search.
type discardNode struct {
	card   domain.CardID
	prior  float64
	visits int
	total  float64
}

func (n *discardNode) mean() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.total / float64(n.visits)
}

// root holds the single-ply tree: Konkan's branching lives almost entirely
// in the discard choice, so the search bandits over discards and lets the
// rollout policy play everything below.
type root struct {
	children []*discardNode
	visits   int
}

func newRoot(ranked []ScoredDiscard, maxArms int) *root {
	if len(ranked) > maxArms {
		ranked = ranked[:maxArms]
	}
	r := &root{}
	min := ranked[len(ranked)-1].Score
	sum := 0.0
	for _, sd := range ranked {
		sum += sd.Score - min + 1.0
	}
	for _, sd := range ranked {
		r.children = append(r.children, &discardNode{
			card:  sd.Card,
			prior: (sd.Score - min + 1.0) / sum,
		})
	}
	return r
}

// selectChild picks the next arm by UCB1 biased by the policy prior.
func (r *root) selectChild(exploration float64) *discardNode {
	var best *discardNode
	bestValue := math.Inf(-1)
	logParent := math.Log(float64(r.visits + 1))
	for _, child := range r.children {
		value := child.mean() + exploration*child.prior*math.Sqrt(logParent/float64(child.visits+1))
		if value > bestValue {
			bestValue = value
			best = child
		}
	}
	return best
}

func (r *root) update(child *discardNode, reward float64) {
	r.visits++
	child.visits++
	child.total += reward
}

// bestChild returns the most visited arm, mean reward breaking ties.
func (r *root) bestChild() *discardNode {
	var best *discardNode
	for _, child := range r.children {
		if best == nil || child.visits > best.visits ||
			(child.visits == best.visits && child.mean() > best.mean()) {
			best = child
		}
	}
	return best
}

package internal

import (
	"konkan/internal/domain"
)

// DemandEstimate summarises how dangerous the table currently is for a seat.
type DemandEstimate struct {
	// SarfRisk grows with the number of opponents who are down and able to
	// absorb trashed cards onto table melds.
	SarfRisk float64
	// ComeDownRisk grows as opponents close in on the come-down threshold,
	// approximated from their hand sizes.
	ComeDownRisk float64
	// ExposurePressure grows with the number of melds on the table, which
	// multiplies the sarf surface every discard must avoid.
	ExposurePressure float64
}

// EstimateDemand sizes up the opposition from public information only: who
// is down, how many table melds exist, and opponent hand counts.
func EstimateDemand(g *domain.Game, seat int) DemandEstimate {
	var est DemandEstimate
	for s, p := range g.Players {
		if s == seat {
			continue
		}
		if p.HasComeDown {
			est.SarfRisk += 1.0
		} else {
			// A short hand means most of it already melds.
			held := p.Hand.Count()
			if held > 0 && held <= g.Rules.HandSize {
				est.ComeDownRisk += float64(g.Rules.HandSize-held+1) / float64(g.Rules.HandSize)
			}
		}
	}
	est.ExposurePressure = float64(len(g.Table)) / 4.0
	return est
}

package bot

import botinternal "konkan/internal/bot/internal"

// DefaultTuning balances shedding deadwood against keeping meld material.
// The sarf-feed penalty dominates the score: handing the next player a free
// table addition loses more than any single discard can gain.
var DefaultTuning = botinternal.PolicyWeights{
	DeadwoodWeight:  1.0,
	SynergyWeight:   1.0,
	FeedSarfPenalty: 80.0,
	JokerPenalty:    40.0,
	LayDownBonus:    12.0,
	TrashDrawMargin: 20.0,
}

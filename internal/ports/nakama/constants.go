package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a
	// lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcResumeToken is the Nakama RPC id clients call to verify a seat
	// resume token after a reconnect.
	RpcResumeToken = "resume_token"

	// MatchNameKonkan is the authoritative match handler name registered
	// with Nakama.
	MatchNameKonkan = "konkan_match"
)

// Match label keys used in MatchList queries.
const (
	MatchLabelKeyOpenSeats = "open"
	MatchLabelKeyPhase     = "phase"
	MatchLabelKeyGame      = "game"
	MatchLabelKeyTier      = "tier"

	MatchLabelGameName = "konkan"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartRound int64 = 1
	OpDraw       int64 = 2
	OpLayDown    int64 = 3
	OpSarf       int64 = 4
	OpJokerSwap  int64 = 5
	OpTrash      int64 = 6

	// Server -> Client events
	OpMatchSnapshot  int64 = 100
	OpRoundStarted   int64 = 101
	OpHandDealt      int64 = 102 // send privately
	OpCardDrawn      int64 = 103
	OpCameDown       int64 = 104
	OpCardSarfed     int64 = 105
	OpJokerSwapped   int64 = 106
	OpCardTrashed    int64 = 107
	OpRoundEnded     int64 = 108
	OpGameError      int64 = 110
	OpResumeTokenSet int64 = 111
	OpPlayerJoined   int64 = 112
	OpPlayerLeft     int64 = 113
)

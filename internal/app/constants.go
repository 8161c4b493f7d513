package app

// MinPlayersToStartGame defines the number of occupied seats required to
// start a Konkan round. Keep this centralized so tests or local runs can
// adjust the rule without touching multiple call sites.
const MinPlayersToStartGame = 3

// Draw sources as carried on the wire.
const (
	DrawSourceStock = "stock"
	DrawSourceTrash = "trash"
)

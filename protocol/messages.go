package protocol

// SessionHello is sent by a client after connecting to request a session.
type SessionHello struct {
	Version           string
	PlayerName        string
	ReconnectToken    string
	ConstantsChecksum uint64
}

// SessionWelcome is sent by the server when the session is accepted.
// ConstantsChecksum is the server's own hash of the mirrored constant
// tables; prediction stays disabled until it matches the client's.
type SessionWelcome struct {
	PlayerID          PlayerID
	ReconnectToken    string
	ServerName        string
	ConstantsChecksum uint64
	WorldWidthPx      float64
	WorldHeightPx     float64
	ServerTimeMs      int64
}

// SessionRejected is sent by the server when the session request is refused.
type SessionRejected struct {
	Reason string
}

// StateDelta is one transaction's worth of row changes, grouped per table.
// Upserted rows replace any cached row with the same id; the Gone slices
// list ids deleted in the same transaction. Applying a delta is atomic
// from the simulation's point of view.
type StateDelta struct {
	ServerTimeMs int64

	Players     []Player
	PlayersGone []PlayerID

	Trees     []Tree
	TreesGone []EntityID

	Stones     []Stone
	StonesGone []EntityID

	StorageBoxes     []StorageBox
	StorageBoxesGone []EntityID

	Shelters     []Shelter
	SheltersGone []EntityID

	Furnaces     []Furnace
	FurnacesGone []EntityID

	RainCollectors     []RainCollector
	RainCollectorsGone []EntityID

	Barrels     []Barrel
	BarrelsGone []EntityID

	WildAnimals     []WildAnimal
	WildAnimalsGone []EntityID

	ActiveEffects     []ActiveEffect
	ActiveEffectsGone []uint64

	DodgeRolls     []DodgeRoll
	DodgeRollsGone []PlayerID
}

// UpdatePosition reports a predicted position to the server. The server
// validates and applies it, then echoes Seq back on the player row as
// MoveSeq. It never answers with a corrected position. Sprinting is the
// effective flag: input sprint and actually moving and not knocked out.
type UpdatePosition struct {
	Seq         uint64
	X           float64
	Y           float64
	Sprinting   bool
	Facing      FacingDirection
	TimestampMs int64
}

// SetCrouching toggles the crouch flag. Takes effect when the row echoes it.
type SetCrouching struct {
	Crouching bool
}

// Jump starts a jump. The row echoes JumpStartedAtMs on success.
type Jump struct{}

// StartDodgeRoll requests a dodge roll in the given direction. The server
// decides the actual start and target and publishes a DodgeRoll row.
type StartDodgeRoll struct {
	DirX float64
	DirY float64
}

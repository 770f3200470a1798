package protocol

// Player is the authoritative player row. The server applies UpdatePosition
// calls and echoes the result here; MoveSeq carries the sequence number of
// the last applied update so the client can retire acknowledged sends.
type Player struct {
	ID   PlayerID
	Name string

	X      float64
	Y      float64
	Facing FacingDirection

	// Sequence number of the last UpdatePosition the server applied
	MoveSeq uint64

	IsSprinting    bool
	IsCrouching    bool
	IsKnockedOut   bool
	IsDodgeRolling bool
	IsOnWater      bool

	// Unix ms when the current jump started; zero when not jumping
	JumpStartedAtMs int64

	Health int32
	IsDead bool
}

// Tree is a harvestable tree. Health reaching zero fells it.
type Tree struct {
	ID     EntityID
	X      float64
	Y      float64
	Health int32
}

// Stone is a harvestable stone node.
type Stone struct {
	ID     EntityID
	X      float64
	Y      float64
	Health int32
}

// StorageBox is a placed storage container.
type StorageBox struct {
	ID        EntityID
	OwnerID   PlayerID
	X         float64
	Y         float64
	Destroyed bool
}

// Shelter is a placed player shelter. The owner walks through their own
// shelter freely; everyone else collides with it.
type Shelter struct {
	ID        EntityID
	OwnerID   PlayerID
	X         float64
	Y         float64
	Health    int32
	Destroyed bool
}

// Furnace is a placed smelting station.
type Furnace struct {
	ID        EntityID
	OwnerID   PlayerID
	X         float64
	Y         float64
	Destroyed bool
}

// RainCollector is a placed water collector.
type RainCollector struct {
	ID        EntityID
	OwnerID   PlayerID
	X         float64
	Y         float64
	Destroyed bool
}

// Barrel is a lootable world barrel.
type Barrel struct {
	ID     EntityID
	X      float64
	Y      float64
	Health int32
}

// WildAnimal is a server-driven creature.
type WildAnimal struct {
	ID      EntityID
	Species string
	X       float64
	Y       float64
	Health  int32
	IsDead  bool
}

// ActiveEffect is a timed status effect applied to a player.
type ActiveEffect struct {
	ID          uint64
	PlayerID    PlayerID
	Type        EffectType
	ExpiresAtMs int64
}

// DodgeRoll is the server's record of an in-flight dodge roll. Clients
// derive the roll direction from Start to Target rather than from input,
// so a roll started on stale input still lands where the server says.
type DodgeRoll struct {
	PlayerID    PlayerID
	StartX      float64
	StartY      float64
	TargetX     float64
	TargetY     float64
	StartedAtMs int64
}

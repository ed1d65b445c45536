package wave

import (
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/catalog"
	"github.com/lawnchairsociety/wavecrawler/internal/placement"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
)

// Handle identifies an entity owned by the host.
type Handle uint64

// Spawner creates and removes entities in the host world. DestroyEntity
// must ignore handles that no longer exist.
type Spawner interface {
	SpawnEntity(typeID string, at tile.Point) (Handle, error)
	DestroyEntity(h Handle)
}

// HostileCounter reports how many hostile entities are alive.
type HostileCounter interface {
	CountLiveHostiles() int
}

// Player is the host's player character.
type Player interface {
	MovePlayerTo(at tile.Point)
	GrantTemporaryInvulnerability(d time.Duration)
}

// Inventory receives collected items.
type Inventory interface {
	AddItem(itemID string, quantity int) error
}

// Notifier receives the player-facing wave messages.
type Notifier interface {
	WaveDisplayChanged(level int, boss bool)
	HostileCountChanged(count int)
	ClearedMessage(boss bool)
	PortalSearchMessage()
}

// LevelCounter is the difficulty counter advanced when the player leaves
// through the portal.
type LevelCounter interface {
	Level() int
	Advance() int
}

// Terrain receives the floor and wall layout before anything is placed on
// it. Optional.
type Terrain interface {
	PaintArena(a *arena.Arena)
}

// Journal records finished waves. Optional.
type Journal interface {
	RecordWave(s Summary) error
}

// Roster supplies the enemy and item definitions a wave draws from.
type Roster interface {
	EnemyQuota() []placement.QuotaEntry
	BossTypeID() string
	SpawnTable() (*placement.Table, error)
	DropTable() []placement.DropEntry
	Item(id string) (catalog.ItemDefinition, bool)
}

// Deps bundles the host collaborators. Terrain and Journal may be nil.
type Deps struct {
	Spawner   Spawner
	Hostiles  HostileCounter
	Player    Player
	Inventory Inventory
	Notifier  Notifier
	Levels    LevelCounter
	Terrain   Terrain
	Journal   Journal
}

package world

import "sync/atomic"

// IDGenerator generates unique object IDs for all simulation entities.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid)
//	0x10000000 - 0x1FFFFFFF: Targets
//	0x20000000 - 0x2FFFFFFF: Agents
//	0x30000000 - 0x3FFFFFFF: Projectiles
//	0x40000000 - 0x4FFFFFFF: Loot
type IDGenerator struct {
	nextTargetID     atomic.Uint32
	nextAgentID      atomic.Uint32
	nextProjectileID atomic.Uint32
	nextLootID       atomic.Uint32
}

// NewIDGenerator creates a new ID generator.
func NewIDGenerator() *IDGenerator {
	gen := &IDGenerator{}
	gen.nextTargetID.Store(0x10000000)
	gen.nextAgentID.Store(0x20000000)
	gen.nextProjectileID.Store(0x30000000)
	gen.nextLootID.Store(0x40000000)
	return gen
}

// NextTargetID generates next unique target object ID.
func (g *IDGenerator) NextTargetID() uint32 {
	return g.nextTargetID.Add(1)
}

// NextAgentID generates next unique agent object ID.
func (g *IDGenerator) NextAgentID() uint32 {
	return g.nextAgentID.Add(1)
}

// NextProjectileID generates next unique projectile object ID.
func (g *IDGenerator) NextProjectileID() uint32 {
	return g.nextProjectileID.Add(1)
}

// NextLootID generates next unique loot object ID.
func (g *IDGenerator) NextLootID() uint32 {
	return g.nextLootID.Add(1)
}

// IsAgentID reports whether id belongs to the agent range.
func IsAgentID(id uint32) bool {
	return id >= 0x20000000 && id < 0x30000000
}

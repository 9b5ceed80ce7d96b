package game

import "fmt"

// RoleKind distinguishes the three ways a session participates in a match.
type RoleKind int

const (
	// RoleLocal runs everything in-process: no replication at all.
	RoleLocal RoleKind = iota
	// RoleHost runs the authoritative simulation and broadcasts snapshots.
	RoleHost
	// RoleGuest applies received snapshots and sends input intent only.
	RoleGuest
)

// Role is a tagged variant: GuestIndex is meaningful only for RoleGuest.
// Code switches on Kind instead of consulting boolean flags.
type Role struct {
	Kind       RoleKind
	GuestIndex int
}

func LocalRole() Role { return Role{Kind: RoleLocal, GuestIndex: -1} }
func HostRole() Role  { return Role{Kind: RoleHost, GuestIndex: -1} }

func GuestRole(paddleIndex int) Role {
	return Role{Kind: RoleGuest, GuestIndex: paddleIndex}
}

func (r Role) String() string {
	switch r.Kind {
	case RoleLocal:
		return "local"
	case RoleHost:
		return "host"
	case RoleGuest:
		return fmt.Sprintf("guest(%d)", r.GuestIndex)
	}
	return "unknown"
}

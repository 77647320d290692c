package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies what an account is allowed to do.
// Send-money is user-to-user; cash-in/cash-out settle against an agent.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

type AccountStatus string

const (
	StatusActive  AccountStatus = "active"
	StatusBlocked AccountStatus = "blocked"
)

// Account is a wallet holder. Balance is stored in the smallest
// currency unit as an int64 and is never allowed to go negative.
type Account struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
	Balance      int64         `json:"balance"`
	BonusGranted bool          `json:"bonus_granted"`
	PINHash      string        `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Welcome bonus granted once per account when an admin activates it.
const (
	UserBonus  int64 = 40
	AgentBonus int64 = 10000
)

// BonusFor returns the one-time activation bonus for a role.
func BonusFor(role Role) int64 {
	switch role {
	case RoleUser:
		return UserBonus
	case RoleAgent:
		return AgentBonus
	default:
		return 0
	}
}

package role

import (
	"errors"
	"strconv"
	"strings"
)

// Role is the closed set of account kinds the dashboard knows about.
type Role int

const (
	Unknown Role = iota
	Landlord
	Tenant
)

// LandlordCode is the numeric role_id the backend issues for landlords.
// Every other valid code is a tenant.
const LandlordCode = 1

var ErrInvalidCode = errors.New("invalid role code")

func FromCode(code int) Role {
	if code == LandlordCode {
		return Landlord
	}
	return Tenant
}

// Parse converts the persisted string form of a role code.
func Parse(raw string) (Role, error) {
	code, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Unknown, ErrInvalidCode
	}
	return FromCode(code), nil
}

// Code is the inverse of FromCode. Tenants persist as 2.
func (r Role) Code() int {
	switch r {
	case Landlord:
		return LandlordCode
	case Tenant:
		return 2
	default:
		return 0
	}
}

func (r Role) String() string {
	switch r {
	case Landlord:
		return "landlord"
	case Tenant:
		return "tenant"
	default:
		return "unknown"
	}
}

func (r Role) Valid() bool {
	return r == Landlord || r == Tenant
}

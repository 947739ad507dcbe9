package model

import "time"

// Role names an account's position in the system.  Roles are stored as
// plain strings in the `users` table.
type Role string

const (
	RoleCustomer  Role = "CUSTOMER"
	RoleOrganizer Role = "ORGANIZER"
	RoleStaff     Role = "STAFF"
	RoleAdmin     Role = "ADMIN"
)

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  JSON tags are omitted here because these structs are
// primarily used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (CUSTOMER, ORGANIZER, STAFF, ADMIN).
//  RoleApproved – whether an elevated role has been approved by an
//                 admin.  Customers are always approved.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	RoleApproved bool      // users.role_approved
	CreatedAt    time.Time // users.created_at
}

// Capability is a named permission checked at the service layer.
type Capability string

const (
	// CapValidateTickets allows scanning and consuming tickets at the
	// venue entrance.
	CapValidateTickets Capability = "validate_tickets"
)

// Identity is the authenticated caller as carried through request
// handling.  It is built from verified JWT claims, never from request
// bodies.
type Identity struct {
	UserID   uint64
	Role     Role
	Approved bool
}

// Can reports whether the identity holds the given capability.
// Elevated roles only count once approved; an unapproved STAFF
// account behaves like a customer.
func (i Identity) Can(cap Capability) bool {
	if !i.Approved {
		return false
	}
	switch cap {
	case CapValidateTickets:
		return i.Role == RoleStaff || i.Role == RoleAdmin
	default:
		return false
	}
}

package model

// Principal identifies the authenticated caller. It is threaded explicitly
// through every service input so audit fields never fall back to an ambient
// default user.
type Principal struct {
	UserID int
	Name   string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "ADMIN"
}

func (p Principal) IsApprover() bool {
	return p.Role == "ADMIN" || p.Role == "APPROVER"
}

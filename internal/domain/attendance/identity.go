package attendance

// Identity is the authenticated caller as resolved by the transport layer.
// Use cases receive it explicitly and never look the caller up on their own.
type Identity struct {
	EmployeeID uint
	Admin      bool
}

func NewIdentity(employeeID uint, admin bool) Identity {
	return Identity{EmployeeID: employeeID, Admin: admin}
}

func (i Identity) IsZero() bool {
	return i.EmployeeID == 0
}

// CanRead reports whether the caller may read data owned by ownerID.
func (i Identity) CanRead(ownerID uint) bool {
	return i.Admin || i.EmployeeID == ownerID
}

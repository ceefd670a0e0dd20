package models

// Role represents an owner's role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Owner identifies whoever a request acts for. An empty ID is an anonymous
// visitor who can only read the shared feed.
type Owner struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsAdmin checks if the owner has admin role
func (o Owner) IsAdmin() bool {
	return o.Role == RoleAdmin
}

// Anonymous reports whether no owner was identified
func (o Owner) Anonymous() bool {
	return o.ID == ""
}

package model

const (
	RoleClient    = "client"
	RoleArchitect = "architect"
)

// User is a minimal mirror of the external user store, kept for display
// joins (client names in notifications and pending-match listings).
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Ctime       int64  `json:"ctime"`
	Mtime       int64  `json:"mtime"`
}

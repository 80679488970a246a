package model

const (
	MatchStatusPending  = "pending"
	MatchStatusApproved = "approved"
	MatchStatusDeclined = "declined"
)

// MatchRequest is one client's proposal to engage one architect. The
// (client_id, architect_id) pair is unique at the storage layer; any prior
// request, even a declined one, blocks a new row.
type MatchRequest struct {
	ID          string `json:"id"`
	ClientID    string `json:"client_id"`
	ArchitectID string `json:"architect_id"`
	Status      string `json:"status"`
	Ctime       int64  `json:"ctime"`
}

// PendingMatch is a MatchRequest joined with the requesting client's
// display data, a denormalized read for the architect's inbox.
type PendingMatch struct {
	MatchRequest
	ClientName string `json:"client_name"`
}

func IsTerminalMatchStatus(status string) bool {
	return status == MatchStatusApproved || status == MatchStatusDeclined
}

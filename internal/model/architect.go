package model

// ArchitectProfile is the marketplace-facing record for an architect. The
// identity itself is owned by the external user store; this table mirrors
// what ranking and display need.
//
// PortfolioText is derived from the profile fields and any uploaded
// credential documents. PortfolioEmbedding is the serialized vector for
// that text, stored as a comma-delimited decimal string so existing rows
// written by the previous system remain readable. EmbedHash is the sha256
// of the text the stored embedding was computed from; a mismatch marks the
// embedding as stale.
type ArchitectProfile struct {
	ID                 string  `json:"id"`
	DisplayName        string  `json:"display_name"`
	Style              string  `json:"style"`
	Specialization     string  `json:"specialization"`
	Location           string  `json:"location"`
	BudgetRange        string  `json:"budget_range"`
	Bio                string  `json:"bio"`
	Rating             float64 `json:"rating"`
	Pro                bool    `json:"pro"`
	CredentialsText    string  `json:"-"`
	PortfolioText      string  `json:"-"`
	PortfolioEmbedding string  `json:"-"`
	EmbedHash          string  `json:"-"`
	EmbedMtime         int64   `json:"-"`
	Ctime              int64   `json:"ctime"`
	Mtime              int64   `json:"mtime"`
}

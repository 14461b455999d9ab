package auth

// Scopes granted to journal clients.
const (
	ScopeJournalRead  = "journal:read"
	ScopeJournalWrite = "journal:write"
)

package common

// SessionCookieName is the cookie that carries the signed session token
// between the API and its clients.
const SessionCookieName = "token"

// DefaultCoverImage is served for catalog entries that carry no cover.
const DefaultCoverImage = "https://via.placeholder.com/300x400?text=No+Cover"

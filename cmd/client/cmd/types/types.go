package types

type contextKey string

// ClientAppKey is the context key commands use to reach the wired App.
const ClientAppKey contextKey = "clientApp"

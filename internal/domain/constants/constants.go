// Package constants holds configuration literals shared between packages.
package constants

// Environment names.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Event publisher providers.
const (
	PubSubProviderLocal    = "local"
	PubSubProviderGoogle   = "google"
	PubSubProviderRabbitMQ = "rabbitmq"
)

// Admin fan-out strategies.
const (
	AdminFanoutSync   = "sync"
	AdminFanoutQueued = "queued"
)

// Upload folders.
const (
	FolderGeneral       = "rental_app/general"
	FolderProperties    = "rental_app/properties"
	FolderProfilePhotos = "rental_app/profiles"
)

// Upload limits.
const (
	MaxUploadBytes = 5 * 1024 * 1024
	MaxUploadFiles = 10
)

// Pagination defaults.
const (
	DefaultPageLimit         = 20
	DefaultLongPageLimit     = 50
	MaxPageLimit             = 100
	ChatMessagesDefaultLimit = 50
)

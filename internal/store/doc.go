// Package store defines the persistence interfaces consumed by the
// analytics and listing cores, along with the shared error taxonomy.
// Concrete implementations live under internal/platform.
package store

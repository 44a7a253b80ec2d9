// Package domain contains the core business entities and value objects of
// the task analytics system: tasks, users, and the rolling time window the
// rollups are computed over. It is independent of any specific
// infrastructure or delivery mechanism.
package domain

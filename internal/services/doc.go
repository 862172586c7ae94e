// Package services provides the shared error taxonomy and context helpers
// used across pipeline stages. Sentinel markers let callers classify a
// failure (degraded classifier, failed move, watcher outage) without
// inspecting message text.
package services

// Package queue persists the file-processing queue in SQLite. Items move
// through pending, classifying, classified, organizing, and finally
// completed or failed; the store serializes writes and retries on busy
// locks so the monitor and workflow can share one database.
package queue

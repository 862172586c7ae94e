// Package monitor turns filesystem events into queue items.
//
// A file only qualifies once its size and mtime have held steady for the
// configured stability window, so half-written downloads are never
// organized. Hidden files, OS metadata, partial-download extensions, and
// files below the minimum size are ignored. Watcher failures restart the
// watch a bounded number of times before the monitor gives up.
package monitor

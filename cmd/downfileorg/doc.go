// Command downfileorg classifies downloaded files with a trained decision
// tree ensemble and moves them into per-category library folders. It can run
// as a one-shot pass over the watch directory or as a daemon that reacts to
// filesystem changes.
package main

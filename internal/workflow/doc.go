// Package workflow drives queue items through the classify and organize
// stages.
//
// The manager owns a single processing lane: it polls the queue, moves the
// oldest ready item into the stage's processing status, runs the handler,
// and persists the resulting transition. Stage failures are recorded on the
// item rather than halting the lane, so one bad file never blocks the
// directory behind it.
package workflow

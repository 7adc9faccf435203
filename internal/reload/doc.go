// Package reload merges independently sampled trajectories into one globally
// time-ordered animation and maintains the proximity graph between the
// trajectories at every frame.
//
// A run walks one cursor per trajectory. At every step the scheduler picks
// the cursor whose pending sample is earliest; that sample's time becomes the
// frame time. The frame builder then places every started, unexpired
// trajectory at that time (exactly for the selected one, interpolated for the
// others) and the proximity maintainer adds, updates or removes edges for
// every pair of nodes. All graph mutations go to a recording.Recorder, framed
// by StepBegins events.
//
// Runs are synchronous and pure: an Engine holds no state between runs and
// distinct engines may run in parallel on separate inputs.
package reload

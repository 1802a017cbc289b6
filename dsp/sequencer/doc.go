// Package sequencer merges time-bounded events into one fixed-width output.
//
// A Sequencer is the control-side frontend: it validates events, hands out
// EventHandles and forwards edits. Its Backend is the real-time unit that
// owns play time. Each event moves from Scheduled to Active to Finished as
// play time crosses [start, end). Active events are ticked, scaled by their
// fade envelope and summed, or averaged when MixAverage is selected.
//
// Until Backend is called events are staged on the frontend. Afterwards
// every change travels to the audio goroutine through a bounded
// single-producer/single-consumer queue, and an operation that finds the
// queue full is rejected instead of blocking.
package sequencer

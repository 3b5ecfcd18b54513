// Package connection provides retry timing primitives for the control link:
// a jittered backoff calculator for transport reconnection and a cancelable
// single-shot retry timer scoped to one device.
//
// Retry timers are always device-scoped. A retry scheduled for one accessory
// never affects another, and canceling a session deterministically cancels
// its pending retry.
package connection

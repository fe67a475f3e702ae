// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package period owns the voting/debate state machine.

# State Machine

Two periods alternate on a fixed cadence:

	voting ──(top-voted undebated topic)──▶ debate
	voting ──(no eligible topic)──▶ voting   (no-op, reported distinctly)
	debate ──(unconditional)──▶ voting       (undebated tallies reset)

A topic that has been debated is terminal: it is never a candidate again,
which is what makes a duplicated or crashed tick converge instead of
selecting a second winner.

# Ticks

Controller.Tick runs one transition. It is guarded by a TryLock so a tick
never overlaps itself; overlapping invocations return OutcomeSkipped.
Ticks arrive from either source:

  - Controller.Run: built-in time.Ticker loop (enable with -tick)
  - POST /cron: an external scheduler hitting the tick endpoint

Both may be active; duplicate invocations are tolerated by design.

# Broadcast Coupling

Every non-skipped tick (including the no-op) restarts the session hub's
countdown window, so connected clients stay aligned with the real cadence
even when no transition happened.

# Failure Handling

A store failure aborts the tick without partial mutation (topic and state
updates share a transaction in the store). Run logs the error and simply
retries on the next scheduled tick.
*/
package period

// Package contextsync keeps the Morvo agent fleet working from a consistent
// view of the company being marketed.
//
// Each agent accumulates memories in its own lane of the memory store. The
// Manager merges the shareable slice of those memories, plus any snapshot the
// caller supplies, into a cross-agent context, filters it down to what each
// agent actually uses, and distributes the filtered views. Critical updates
// bypass the merge and go out immediately in a per-category priority order.
//
//	manager := contextsync.New(store, h, contextsync.DefaultConfig())
//	merged, err := manager.Synchronize(ctx, companyID, snapshot)
//
// Reading the other direction, Synchronized assembles an agent's effective
// context: the shared base overlaid with the agent's own memories, newest
// values winning.
package contextsync

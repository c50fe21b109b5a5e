// Package persist stores saved pane positions and named views per
// environment.
//
// Two implementations share the Store interface: SQLite, a local database
// opened with OpenSQLite and used by the dashboard, and Memory, used when
// persistence is disabled and in tests. Both satisfy layout.Records, so a
// Store can be handed straight to layout.New.
//
// Positions are keyed by (environment, view, item id). SavePositions
// replaces the whole set for one view, which is how removed panes drop out.
// ForkEnv copies positions and views to a new environment and refuses to
// overwrite one that already has state; DeleteEnv removes everything.
package persist

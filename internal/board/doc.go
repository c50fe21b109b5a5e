// Package board is the HTTP client for the dashboard backend.
//
// The backend exposes an ordered event feed and a small set of mutations:
//
//	GET    /api/events?since=N           event feed (EventBatch)
//	POST   /api/envs/{env}/views         store a view definition
//	DELETE /api/envs/{env}/views/{name}  drop a view definition
//	POST   /api/envs/{src}/fork?to=dst   copy an environment
//	DELETE /api/envs/{env}               remove an environment
//
// Every request carries a User-Agent and an X-Panegrid-Session header with
// a per-process uuid. Envelope sizes are in pixels; Envelope.Event converts
// them to grid cells through layout.Grid and skips kinds it does not know.
//
// Errors are wrapped with the failing step ("create request", "execute
// request", "decode response") and status codes of 400 and above are
// reported with the method and path.
package board

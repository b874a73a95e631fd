// Package server exposes the reference backend over HTTP and websocket.
//
// Every mutation in the board operation set has a route; all of them
// require a bearer session token. After a committed write the server
// pushes a fresh boards-for-user snapshot to the owner's websocket
// subscribers, which is the only server-to-client channel: clients
// never receive per-mutation deltas, only whole trees to reconcile.
package server

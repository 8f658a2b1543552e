// Package cli provides the interactive carpool command-line client.
//
// It wires configuration and the API client into a REPL. Typical flow:
// sign up or log in, browse rides, request a seat, and as a host accept or
// reject the requests on your own rides.
//
// Commands:
//   - signup, login, logout, forgot, passwd
//   - post, browse, myrides
//   - request, myrequests, accept, reject
//
// A background watcher pings the server and shows online/offline in the
// prompt. The REPL is started via App.Run(ctx), which blocks until the user
// exits. See runREPL for the dispatch loop.
package cli

// Package cli provides the interactive travel journal client.
//
// It wires configuration, the local store, the connectivity monitor, the
// photo classifier, the remote entries client and the sync coordinator, then
// runs a REPL. Entries are always written locally first; the coordinator
// pushes them whenever the monitor sees connectivity come back.
//
// Commands:
//   - add, list, show <id>, edit <id>, delete <id>, clear
//   - sync (manual pass), status (connectivity, last pass, failed entries)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli

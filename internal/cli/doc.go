// Package cli provides the interactive LoclLock command-line client.
//
// It wires configuration, storage, the key services and the vault
// coordinator, then runs a REPL. On first run the user is asked to choose a
// master password; afterwards the vault starts locked and must be unlocked.
//
// Commands:
//   - unlock / lock
//   - add, update <id>, delete <id>
//   - list [category-id], search <keyword> [category-id], show <id>, reveal <id>
//   - categories, addcat, delcat <id>
//   - passwd (change the master password and re-encrypt every secret)
//   - logs [n]
//   - exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli

// Package accounts persists vault accounts.
//
// SQLRepository works over a dbx.DBTX, so the same type serves plain reads
// through *sql.DB and multi-step writes through *sql.Tx. Queries use "?"
// placeholders; the PostgreSQL repository manager wraps the handle with
// dbx.Rebind before constructing the repository.
//
// Only ciphertext tokens are stored. The package never sees a key or a
// plaintext password.
package accounts

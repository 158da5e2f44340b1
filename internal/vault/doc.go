// Package vault is the coordinator every caller goes through.
//
// A Vault owns the lock state machine. It starts Locked; Setup (first run
// only) and Unlock are the only operations allowed while locked, and every
// account, category, search, reveal, audit and rotation call fails with
// common.ErrAccessDenied without touching storage. Lock, or an idle timeout
// when configured, returns it to Locked and wipes the active key.
//
// All operations are serialized behind one mutex, which also makes the
// master key rotation protocol the only writer of the active key while it
// runs. Rotation re-encrypts every account and replaces the verification
// hash in one transaction; on any failure the transaction rolls back, the
// previous key is reactivated and a *common.RotationError is returned.
package vault

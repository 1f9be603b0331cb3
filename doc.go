/*
Package tokenswap defines the interfaces shared by the ledger runtime and the
programs it hosts: addresses, program derived addresses, accounts,
instructions, programs and the storage abstraction.

State lives exclusively in accounts. A program receives the accounts an
instruction references, mutates them in place and returns an error to abort.
The runtime owns the transaction boundary: when any instruction fails, every
write of the transaction is discarded.

We pass context through context.Context between the runtime and programs. For
every value XYZ of type T that travels in a context there are two functions:

  WithXYZ(Context, T) Context
  GetXYZ(Context) T
*/
package tokenswap

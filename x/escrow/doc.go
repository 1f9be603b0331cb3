/*
Package escrow implements a trustless swap of two tokens between an
initializer and a taker.

The initializer moves the tokens it offers into a temporary token account and
calls InitEscrow with the amount of the other token it expects. The program
records the trade and takes ownership of the temporary account through a
program derived address, so nobody holding a private key can move the locked
tokens anymore.

Any taker can then call Exchange with the expected amount. Within a single
instruction the taker pays the initializer, receives the locked tokens, and
the temporary account together with the escrow record are closed with their
rent refunded to the initializer. If any step fails nothing changes.
*/
package escrow

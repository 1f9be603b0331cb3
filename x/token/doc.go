/*
Package token implements the token custody program used by the escrow.

A mint defines a token and the authority allowed to issue it. Token accounts
hold a balance of a single mint on behalf of an owner. Only the owner can move
the balance, close the account or hand the ownership over to somebody else,
which is how the escrow takes custody of the offered tokens.
*/
package token

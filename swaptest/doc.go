/*
Package swaptest provides helpers for testing programs against a real
ledger: keys, funded accounts, mints and token accounts.
*/
package swaptest

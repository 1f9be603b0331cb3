/*
Package errors implements the error codes surfaced by the ledger runtime and
the programs it hosts.

Every failure that leaves a program must wrap one of the root errors declared
with Register (ledger wide codes) or RegisterCustom (codes owned by a single
program). The root error is what the caller sees: a numeric code that is
stable across versions and can be mapped back to its description with Lookup.

Create errors at the point of failure using ErrXyz.New, ErrXyz.Newf or
Wrap(err, "..."), so a stacktrace is attached. Only the innermost wrap records
the stack.

Once you have an error, use fmt to inspect it
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors

/* Command minforth interprets a small Forth-like language.

Programs are whitespace separated words operating on a stack of signed 64-bit
integers:

	2 3 + .                 prints 5
	1 2 3 .s                prints <3> [1 2 3]
	: sq dup * ; 7 sq .     prints 49

Builtin words:

	/ mod + - *             arithmetic; / and mod round toward negative infinity
	dup drop swap over rot  stack shuffles
	2dup 2drop 2swap 2over  pairwise stack shuffles
	= <> < >                comparisons, leaving -1 for true and 0 for false
	and or not              bitwise logic
	.                       pop and print the top value
	.s                      print the whole stack without changing it
	COND if A [else B] then run A when COND is non-zero, otherwise B
	: NAME BODY ;           define (or redefine) NAME
	recurse                 call the word currently being defined
	( ... ) \ ...           comments

Given file arguments, each file is run as one program, in order, all sharing
the words they define. Without arguments, standard input is run as one
program; or, when it is a terminal, read line by line with each line run as
its own program, until "exit" or end of input.

A failing program prints one line, then the next program carries on:

	Syntax Error            the program did not parse, and nothing was run
	Runtime Error: MESSAGE  e.g. "Stack underflow", "Unknown word: foo"
	Error: MESSAGE          anything else, e.g. a timeout

Words defined before a failure stay defined, and output printed before it
stays printed.

Settings may also come from a TOML file given by -config:

	[eval]
	overflow = "wrap"      # or "error"
	max-depth = 10000      # nested calls and recursion; 0 for no limit
	stack-limit = 0        # value stack depth; 0 for no limit

	[repl]
	prompt = "? "
	history-file = ""
	banner = true

Flags given on the command line override the file.
*/
package main

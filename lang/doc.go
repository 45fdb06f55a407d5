// Package lang implements the IPL interpreter: a small, Python-like language
// whose blocks are delimited by indentation alone.
//
// A program is executed directly from its source lines. There is no syntax
// tree and no compile step.
//
// # Expressions
//
// Expression text is split into tokens by [Lex], reordered into postfix
// order by [Reorder] and evaluated with an operand stack. Operator
// precedence, low to high:
//
//	or
//	and
//	not
//	== != < <= > >=
//	+ -
//	* /
//	- (negation)
//	. [] (attribute, method call, index)
//
// Call arguments, list elements and index bounds are collected as token runs
// and evaluated recursively when the call, list or index is evaluated.
//
// # Statements
//
// Each line is one statement. The executor keeps an indentation stack of
// open blocks (if, else, while, for, function, class); a line indented no
// deeper than a block's header closes that block, and a closed while block
// re-evaluates its condition.
//
//	i = 0
//	while i < 3
//	    out(i)
//	    i = i + 1
//
// Block headers may end with an optional colon. The body of a block must use
// a single indentation; see [ErrIndent].
//
// # Functions, classes and imports
//
// A function call replaces the whole variable environment with a copy of the
// caller's plus the bound parameters, and restores it afterwards: globals
// are readable inside functions, but assignments never leak out.
//
//	class Dog(Animal)
//	    def speak(self)
//	        return "Woof!"
//
// Each imported file runs once per program in its own [Interpreter]; its
// variables, functions and classes are then merged into the importer.
// Installed libraries are found through [SearchPath] and bound as Library
// values under their name.
package lang

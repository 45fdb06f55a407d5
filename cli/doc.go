// Package cli is the command-line interface of ipl.
//
// # Usage
//
//	ipl [flags] <file.ipl>        run a program
//	ipl repl                      interactive session
//	ipl fmt [-i N] [-w] <file>    re-indent a program
//	ipl fmt outline <file>        list functions and classes as YAML or JSON
//	ipl which <library>           print the entry file of a library
//	ipl init [--force]            write the configuration file
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (for example ~/.config/ipl/config.yaml), keyed by long flag
// name:
//
//	log-level: debug
//	lib-path: [/opt/ipl]
//	define: ['greeting="hi"']
//
// "ipl init" writes the current flag values to that file. Flags given on
// the command line take precedence.
//
// # Interpreter options
//
//   - --lib-path DIR: library root searched before ILI_PATH (repeatable)
//   - --define/-D NAME=EXPR: global variable set from an expression, with
//     env(key), platform and home available (repeatable)
//   - --max-depth N: bound on nested function calls
//
// # Logging options
//
//   - --log-level: trace, debug, info, warn or error
//   - --log-format: text or json
//   - --log-time-layout: timestamp format (RFC3339, Kitchen, ...)
//   - --[no-]log-caller: include the caller location
//   - --[no-]log-pretty: colorize text output
//
// # Profiling options
//
// Only available when built with the pprof tag:
//
//   - --pprof-mode/-p: profiling mode
//   - --pprof-dir: output directory
package cli

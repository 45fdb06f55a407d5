// Package profile provides optional runtime profiling of the interpreter.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without the tag, [Modes] is empty and every [Profiler]
// is a no-op.
//
//	go build -tags pprof .
//	ipl --pprof-mode cpu --pprof-dir ./profiles program.ipl
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Supported modes with the tag: allocs, block, clock, cpu, goroutine, heap,
// mem, mutex, thread, trace.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

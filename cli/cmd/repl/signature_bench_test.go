package repl

import (
	"bytes"
	"testing"

	"github.com/ardnew/ipl/lang"
)

// BenchmarkDetectFunctionCall benchmarks locating the call under the cursor.
func BenchmarkDetectFunctionCall(b *testing.B) {
	inputs := []string{"pow(2, ", "max([1, 2], len(", `out("a, b`, "dog.speak("}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		input := inputs[i%len(inputs)]
		_ = detectFunctionCall(input, len(input))
	}
}

// BenchmarkSignature benchmarks signature lookups of built-in and defined
// functions.
func BenchmarkSignature(b *testing.B) {
	interp := lang.New(lang.WithStdout(new(bytes.Buffer)), lang.WithSearchPath())

	src := "class Dog\n    def speak(self)\n        return 1\nd = Dog()\ndef add(a, b)\n    return a + b\n"
	if _, err := interp.Exec(b.Context(), src); err != nil {
		b.Fatal(err)
	}

	names := []string{"pow", "random", "add", "d.speak", "Dog"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = interp.Signature(names[i%len(names)])
	}
}

// BenchmarkCandidates benchmarks completion candidates for top-level names
// and members.
func BenchmarkCandidates(b *testing.B) {
	interp := lang.New(lang.WithStdout(new(bytes.Buffer)), lang.WithSearchPath())

	if _, err := interp.Exec(b.Context(), "class Dog\n    self.name = 'rex'\nd = Dog()\n"); err != nil {
		b.Fatal(err)
	}

	receivers := []string{"", "d"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = candidates(interp, receivers[i%len(receivers)])
	}
}

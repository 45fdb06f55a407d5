package repl

import "testing"

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		cursor   int
		wantName string
		wantArg  int
		wantIn   bool
	}{
		{"not_in_call", "x + 1", 5, "", 0, false},
		{"first_arg", "pow(2", 5, "pow", 0, true},
		{"second_arg", "pow(2, ", 7, "pow", 1, true},
		{"closed_call", "pow(2, 3)", 9, "", 0, false},
		{"nested_inner", "max([1, 2], len(", 16, "len", 0, true},
		{"inside_list_argument", "max([1, 2, 3", 12, "max", 0, true},
		{"after_list", "f([1, 2], ", 10, "f", 1, true},
		{"method", "dog.speak(", 10, "dog.speak", 0, true},
		{"quoted_comma", `out("a, b`, 9, "out", 0, true},
		{"grouping_paren", "(1 + ", 5, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.name != tt.wantName || got.argIndex != tt.wantArg || got.inCall != tt.wantIn {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want {%s %d %v}",
					tt.input, tt.cursor, got, tt.wantName, tt.wantArg, tt.wantIn)
			}
		})
	}
}

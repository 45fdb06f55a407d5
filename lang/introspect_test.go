package lang

import (
	"slices"
	"testing"
)

const dogSource = `class Dog
    self.name = "rex"
    def speak(self)
        return "Woof!"
    def rename(self, name)
        self.name = name
d = Dog()
def add(a, b)
    return a + b
`

func TestMembers(t *testing.T) {
	interp, _ := newTestInterp(t, "")

	if _, err := interp.Exec(t.Context(), dogSource); err != nil {
		t.Fatal(err)
	}

	want := []string{"name", "rename", "speak"}

	for _, name := range []string{"d", "Dog"} {
		if got := interp.Members(name); !slices.Equal(got, want) {
			t.Errorf("Members(%q) = %v, want %v", name, got, want)
		}
	}

	if got := interp.Members("add"); got != nil {
		t.Errorf("Members(add) = %v, want nil", got)
	}
}

func TestLibraryMembers(t *testing.T) {
	interp, _ := newTestInterp(t, "", WithSearchPath(installLibraries(t)))

	if _, err := interp.Exec(t.Context(), "import util\n"); err != nil {
		t.Fatal(err)
	}

	want := []string{"Box", "base", "prefix", "quad"}
	if got := interp.Members("util"); !slices.Equal(got, want) {
		t.Errorf("Members(util) = %v, want %v", got, want)
	}
}

func TestSignature(t *testing.T) {
	interp, _ := newTestInterp(t, "")

	if _, err := interp.Exec(t.Context(), dogSource); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		want       string
		wantParams []string
		ok         bool
	}{
		{"add", "add(a, b)", []string{"a", "b"}, true},
		{"d.rename", "rename(name)", []string{"name"}, true},
		{"Dog.speak", "speak()", nil, true},
		{"Dog", "Dog()", nil, true},
		{"pow", "pow(base, exp)", []string{"base", "exp"}, true},
		{"quit", "quit()", nil, true},
		{"d.bark", "", nil, false},
		{"nothing", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, params, ok := interp.Signature(tt.name)
			if ok != tt.ok || got != tt.want || !slices.Equal(params, tt.wantParams) {
				t.Errorf("Signature(%q) = %q, %v, %v, want %q, %v, %v",
					tt.name, got, params, ok, tt.want, tt.wantParams, tt.ok)
			}
		})
	}
}

func TestNames(t *testing.T) {
	interp, _ := newTestInterp(t, "")

	if _, err := interp.Exec(t.Context(), dogSource); err != nil {
		t.Fatal(err)
	}

	names := interp.Names()

	if !slices.IsSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}

	for _, want := range []string{"Dog", "add", "d", "out", "quit"} {
		if !slices.Contains(names, want) {
			t.Errorf("Names() missing %q", want)
		}
	}
}

func TestBuiltins(t *testing.T) {
	b := Builtins()

	if got := b["random"]; got != "random(start, end)" {
		t.Errorf("Builtins()[random] = %q", got)
	}

	if len(b) != 10 {
		t.Errorf("len(Builtins()) = %d, want 10", len(b))
	}
}

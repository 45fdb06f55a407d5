package lang

import (
	"errors"
	"runtime"
	"testing"
)

func TestDefine(t *testing.T) {
	t.Setenv("IPL_TEST_DEFINE", "from-env")

	tests := []struct {
		def      string
		wantName string
		want     Value
		wantErr  error
	}{
		{`greeting="hi"`, "greeting", Text("hi"), nil},
		{" n = 1 + 2", "n", Number(3), nil},
		{"ratio=1.5", "ratio", Number(1.5), nil},
		{"flag=1 > 2", "flag", Boolean(false), nil},
		{"xs=[1, 2]", "xs", Sequence(Number(1), Number(2)), nil},
		{`e=env("IPL_TEST_DEFINE")`, "e", Text("from-env"), nil},
		{"p=platform", "p", Text(runtime.GOOS + "/" + runtime.GOARCH), nil},
		{"missing", "", None, ErrDefine},
		{"1x=2", "", None, ErrDefine},
		{"while=2", "", None, ErrDefine},
		{"x=unknown_name", "", None, ErrDefine},
		{"x={}", "", None, ErrDefine},
	}

	for _, tt := range tests {
		t.Run(tt.def, func(t *testing.T) {
			name, v, err := Define(tt.def)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Define() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Define() error = %v", err)
			}

			if name != tt.wantName || !Equal(v, tt.want) {
				t.Errorf("Define() = %q %v, want %q %v", name, v, tt.wantName, tt.want)
			}
		})
	}
}

func TestFromNative(t *testing.T) {
	tests := []struct {
		name    string
		x       any
		want    Value
		wantErr error
	}{
		{"nil", nil, None, nil},
		{"uint8", uint8(3), Number(3), nil},
		{"float32", float32(0.5), Number(0.5), nil},
		{"strings", []string{"a", "b"}, Sequence(Text("a"), Text("b")), nil},
		{"array", [2]int{1, 2}, Sequence(Number(1), Number(2)), nil},
		{"value", Text("v"), Text("v"), nil},
		{"struct", struct{}{}, None, ErrType},
		{"nested map", []any{map[string]int{}}, None, ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromNative(tt.x)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FromNative() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("FromNative() error = %v", err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("FromNative() = %v, want %v", got, tt.want)
			}
		})
	}
}

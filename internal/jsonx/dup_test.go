package jsonx_test

import (
	"reflect"
	"testing"

	"github.com/reoring/flexform/internal/jsonx"
)

func TestDuplicateKeys(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"none", `{"a":1,"b":{"a":2}}`, nil},
		{"top", `{"a":1,"a":2}`, []string{"a"}},
		{"nested", `{"x":{"y":[1,{"k":true,"k":false}]}}`, []string{"x.y[1].k"}},
		{"after containers", `{"a":[{}],"b":{"c":1},"a":null}`, []string{"a"}},
		{"array root", `[{"a":1},{"a":1,"a":2}]`, []string{"[1].a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := jsonx.DuplicateKeys([]byte(tc.in))
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDuplicateKeys_SyntaxError(t *testing.T) {
	got, err := jsonx.DuplicateKeys([]byte(`{"a":1,"a":`))
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("got %v", got)
	}
}

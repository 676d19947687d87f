package secret

import (
	"strings"
	"testing"
)

func TestExpand(t *testing.T) {
	src := StaticSource{
		"HOST": "example.com",
		"PORT": "8080",
		"X":    "y",
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "braced references", input: "https://${HOST}:${PORT}/api/v2", want: "https://example.com:8080/api/v2"},
		{name: "bare reference", input: "host=$HOST", want: "host=example.com"},
		{name: "double dollar escapes", input: "$$${X}", want: "$y"},
		{name: "no references pass through", input: "plain value", want: "plain value"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Expand(tc.input, src)
			if err != nil {
				t.Fatalf("Expand(%q) error = %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("Expand(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestExpand_MissingSlots(t *testing.T) {
	_, err := Expand("a=${PRESENT} b=${ZULU} c=${ALPHA}", StaticSource{"PRESENT": "ok"})
	if err == nil {
		t.Fatal("expected error for unresolved references")
	}
	// Every missing name is reported, sorted, so operators can fix them in
	// one pass instead of replaying the failure per variable.
	if !strings.Contains(err.Error(), "ALPHA, ZULU") {
		t.Errorf("error should list missing names sorted, got: %v", err)
	}
	if strings.Contains(err.Error(), "PRESENT") {
		t.Errorf("resolved slot leaked into error: %v", err)
	}
}

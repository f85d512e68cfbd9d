package trace

import (
	"strings"
	"testing"
)

func parseOne(t *testing.T, input string) Sexp {
	t.Helper()
	exprs, err := ParseSexp(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	if len(exprs) != 1 {
		t.Fatalf("Parsed %d expressions from %q, want 1", len(exprs), input)
	}
	return exprs[0]
}

func TestParseSexpAtoms(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		quoted bool
	}{
		{"symbol", "drag-end", "drag-end", false},
		{"number", "-12.5", "-12.5", false},
		{"string", `"easeinout"`, "easeinout", true},
		{"empty string", `""`, "", true},
		{"escapes", `"a\"b\\c\n"`, "a\"b\\c\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := parseOne(t, tt.input).(Atom)
			if !ok {
				t.Fatalf("Expected an atom for %q", tt.input)
			}
			if a.Value != tt.want || a.Quoted != tt.quoted {
				t.Errorf("Atom = %q (quoted %v), want %q (quoted %v)", a.Value, a.Quoted, tt.want, tt.quoted)
			}
		})
	}
}

func TestParseSexpList(t *testing.T) {
	input := `; recorded gesture
(trace
  # setup
  (at 100 "50")
  ())`

	l, ok := parseOne(t, input).(*List)
	if !ok {
		t.Fatal("Expected a list")
	}
	if l.Head() != "trace" || l.Len() != 3 {
		t.Fatalf("List = %s", l)
	}
	if l.Line() != 2 {
		t.Errorf("List line = %d, want 2", l.Line())
	}
	if l.LeafCount() != 3 || l.IsLeaf() {
		t.Errorf("LeafCount = %d, IsLeaf = %v", l.LeafCount(), l.IsLeaf())
	}

	at := l.Get(1).(*List)
	if at.Line() != 4 {
		t.Errorf("(at) line = %d, want 4", at.Line())
	}
	if got := at.String(); got != `(at 100 "50")` {
		t.Errorf("String() = %s", got)
	}
	if len(at.Args()) != 2 {
		t.Errorf("Args() = %v", at.Args())
	}

	empty := l.Get(2).(*List)
	if empty.Head() != "" || empty.Args() != nil {
		t.Errorf("empty list head %q args %v", empty.Head(), empty.Args())
	}
	if l.Get(5) != nil || l.Get(-1) != nil {
		t.Error("Get out of range should return nil")
	}
}

func TestParseSexpErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unclosed list", "(trace\n(save)", "opened on line 1"},
		{"stray paren", "(a))", "unexpected ')'"},
		{"unterminated string", "(a \"b", "EOF in string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSexp(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("Expected an error for %q", tt.input)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestAtomConversions(t *testing.T) {
	if v, err := (Atom{Value: "inf"}).Float(); err != nil || v <= 1e308 {
		t.Errorf("Float(inf) = %v, %v", v, err)
	}
	if _, err := (Atom{Value: "1", Quoted: true}).Float(); err == nil {
		t.Error("A quoted number should not read as a float")
	}
	for in, want := range map[string]bool{"true": true, "yes": true, "false": false, "no": false} {
		got, err := (Atom{Value: in}).Bool()
		if err != nil || got != want {
			t.Errorf("Bool(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := (Atom{Value: "maybe"}).Bool(); err == nil {
		t.Error("Bool(maybe) should fail")
	}
}

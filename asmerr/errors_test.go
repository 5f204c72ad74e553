package asmerr

import "testing"

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindLex:      "lex",
		KindParse:    "parse",
		KindSemantic: "semantic",
		KindIO:       "io",
		KindVMLoad:   "vm load",
		KindCLI:      "cli",
		Kind(99):     "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestPositionIsZero(t *testing.T) {
	if !(Position{}).IsZero() {
		t.Error("zero-value Position should report IsZero")
	}
	if (Position{Line: 1}).IsZero() {
		t.Error("Position with a line number should not report IsZero")
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Filename: "a.ttpasm", Line: 3, Column: 7}
	if got, want := p.String(), "a.ttpasm:3:7"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	p2 := Position{Line: 3, Column: 7}
	if got, want := p2.String(), "3:7"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if (Position{}).String() != "" {
		t.Error("zero Position should stringify empty")
	}
}

func TestErrorFormatsWithAndWithoutPosition(t *testing.T) {
	withPos := New(Position{Filename: "f.ttpasm", Line: 2, Column: 4}, KindParse, "unexpected %s", "token")
	if got, want := withPos.Error(), "f.ttpasm:2:4: unexpected token"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	withoutPos := NewWithoutPos(KindIO, "cannot open %s", "rom.ttp")
	if got, want := withoutPos.Error(), "cannot open rom.ttp"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

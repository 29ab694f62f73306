package domain

import (
	"testing"
)

func TestListKind_String(t *testing.T) {
	tests := []struct {
		kind ListKind
		want string
	}{
		{ListDeny, "deny"},
		{ListAllow, "allow"},
		{ListKind(9), "ListKind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ListKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestParseListKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ListKind
		wantErr bool
	}{
		{"deny", ListDeny, false},
		{" Allow ", ListAllow, false},
		{"DENY", ListDeny, false},
		{"block", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseListKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseListKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseListKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDomainList_TextsAndIndex(t *testing.T) {
	l := DomainList{
		Kind: ListDeny,
		Entries: []DomainEntry{
			{Text: "a.com", Line: 2},
			{Text: "b.com", Line: 3},
			{Text: "a.com", Line: 7},
		},
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	texts := l.Texts()
	if len(texts) != 3 || texts[0] != "a.com" || texts[2] != "a.com" {
		t.Fatalf("Texts() = %v", texts)
	}
	idx := l.Index()
	if idx["a.com"] != 2 {
		t.Errorf("Index()[a.com] = %d, want first occurrence 2", idx["a.com"])
	}
	if idx["b.com"] != 3 {
		t.Errorf("Index()[b.com] = %d, want 3", idx["b.com"])
	}
}

func TestSuffixSplit(t *testing.T) {
	tests := []struct {
		split SuffixSplit
		exact bool
		parts int
	}{
		{SuffixSplit{"", "co.uk"}, true, 0},
		{SuffixSplit{"foo", "co.uk"}, false, 1},
		{SuffixSplit{"mail.foo", "co.uk"}, false, 2},
		{SuffixSplit{"a.b.c", "com"}, false, 3},
	}
	for _, tt := range tests {
		if got := tt.split.IsExact(); got != tt.exact {
			t.Errorf("%+v.IsExact() = %v, want %v", tt.split, got, tt.exact)
		}
		if got := tt.split.PrivateParts(); got != tt.parts {
			t.Errorf("%+v.PrivateParts() = %d, want %d", tt.split, got, tt.parts)
		}
	}
}

func TestViolation_String(t *testing.T) {
	v := Violation{Check: "lowercase", List: ListAllow, Line: 4, Text: "Example.com", Message: "must be lowercase"}
	want := `allow list, line 4: "Example.com": must be lowercase`
	if got := v.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	v.Line = 0
	want = `allow list: "Example.com": must be lowercase`
	if got := v.String(); got != want {
		t.Errorf("String() without line = %q, want %q", got, want)
	}
}

func TestMXStatus(t *testing.T) {
	tests := []struct {
		s    MXStatus
		r    rune
		name string
	}{
		{MXOK, '.', "ok"},
		{MXNXDomain, 'X', "nxdomain"},
		{MXTimeout, 'T', "timeout"},
		{MXNoMX, 'M', "no_mx"},
		{MXFailed, 'F', "failed"},
		{MXStatus(42), 'F', "MXStatus(42)"},
	}
	for _, tt := range tests {
		if got := tt.s.Rune(); got != tt.r {
			t.Errorf("%v.Rune() = %q, want %q", tt.s, got, tt.r)
		}
		if got := tt.s.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

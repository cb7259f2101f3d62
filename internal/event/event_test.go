package event

import (
	"reflect"
	"testing"
)

func TestParseFormKind(t *testing.T) {
	tests := []struct {
		in   string
		want FormKind
	}{
		{"user", FormUser},
		{"group", FormGroup},
		{"job", FormJob},
		{"change", FormChange},
		{"branch", FormUnknown},
		{"", FormUnknown},
		{"User", FormUnknown}, // case-sensitive like the server's types
	}
	for _, tt := range tests {
		if got := ParseFormKind(tt.in); got != tt.want {
			t.Errorf("ParseFormKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplitQuotedArgs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "plain fields",
			raw:  "a/b.txt ../c.txt",
			want: []string{"a/b.txt", "../c.txt"},
		},
		{
			name: "quoted field with spaces",
			raw:  `"dir with spaces/f.txt" plain.txt`,
			want: []string{"dir with spaces/f.txt", "plain.txt"},
		},
		{
			name: "empty",
			raw:  "",
			want: nil,
		},
		{
			name: "runs of spaces",
			raw:  "a  b",
			want: []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitQuotedArgs(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitQuotedArgs(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewChange_TraceID(t *testing.T) {
	a := NewChange("1", "alice", "ws")
	b := NewChange("1", "alice", "ws")
	if a.TraceID == "" || a.TraceID == b.TraceID {
		t.Error("each event needs its own trace id")
	}
}

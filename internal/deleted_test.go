package internal

import "testing"

func TestDetectDeleted(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantDeleted bool
		wantText    string
	}{
		{name: "regular message", text: "See you soon", wantDeleted: false, wantText: "See you soon"},
		{name: "other deleted", text: "This message was deleted", wantDeleted: true, wantText: ""},
		{name: "own deleted", text: "You deleted this message", wantDeleted: true, wantText: ""},
		{name: "with time tail", text: "This message was deleted10:3010:31", wantDeleted: true, wantText: ""},
		{name: "recalled prefix", text: "recalledYou deleted this message09:0009:01", wantDeleted: true, wantText: ""},
		{name: "marker inside text", text: "fwd: This message was deleted  ", wantDeleted: true, wantText: "fwd:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted, text := DetectDeleted(tt.text)
			if deleted != tt.wantDeleted || text != tt.wantText {
				t.Errorf("DetectDeleted(%q) = (%t, %q), want (%t, %q)", tt.text, deleted, text, tt.wantDeleted, tt.wantText)
			}
		})
	}
}

package router

import "testing"

func TestSplitCommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		cmd  string
		args string
	}{
		{name: "bare command", text: "/list", cmd: "/list", args: ""},
		{name: "command with args", text: "/remind завтра встреча", cmd: "/remind", args: "завтра встреча"},
		{name: "bot suffix", text: "/remind@remind_bot завтра", cmd: "/remind", args: "завтра"},
		{name: "uppercase", text: "/LIST", cmd: "/list", args: ""},
		{name: "plain text", text: "завтра встреча", cmd: "", args: "завтра встреча"},
		{name: "padded", text: "  /help  ", cmd: "/help", args: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := splitCommand(tt.text)
			if cmd != tt.cmd || args != tt.args {
				t.Fatalf("splitCommand(%q) = (%q, %q), want (%q, %q)", tt.text, cmd, args, tt.cmd, tt.args)
			}
		})
	}
}

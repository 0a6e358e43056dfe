package snapshot

import (
	"reflect"
	"testing"
)

func TestBatchArgs(t *testing.T) {
	tests := []struct {
		name     string
		gdb      GDB
		dumpcmd  string
		expected []string
	}{
		{
			name:     "attached to pid",
			gdb:      GDB{Path: "/usr/bin/gdb", PID: 1234},
			dumpcmd:  "dump binary value /tmp/x buf",
			expected: []string{"--batch", "-nx", "-q", "-p", "1234", "-ex", "dump binary value /tmp/x buf"},
		},
		{
			name:     "core file",
			gdb:      GDB{Path: "/usr/bin/gdb", Executable: "/bin/prog", Core: "core.1234"},
			dumpcmd:  "dump binary memory /tmp/x 0x400000 0x400100",
			expected: []string{"--batch", "-nx", "-q", "/bin/prog", "core.1234", "-ex", "dump binary memory /tmp/x 0x400000 0x400100"},
		},
		{
			name:     "executable only",
			gdb:      GDB{Path: "/usr/bin/gdb", Executable: "/bin/prog"},
			dumpcmd:  "dump binary value /tmp/x v",
			expected: []string{"--batch", "-nx", "-q", "/bin/prog", "-ex", "dump binary value /tmp/x v"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.gdb.batchArgs(tt.dumpcmd)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("expected %#v, got %#v", tt.expected, got)
			}
		})
	}
}

func TestGdbDiagnostic(t *testing.T) {
	tests := []struct {
		name     string
		stderr   string
		expected string
	}{
		{"empty", "", ""},
		{"chatter only", "warning: no loadable sections\n[Inferior 1 (process 1) detached]\n", ""},
		{"error line", "warning: something\nNo symbol \"buf\" in current context.\n", `No symbol "buf" in current context.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gdbDiagnostic(tt.stderr); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestULongToBytes(t *testing.T) {
	for _, n := range []uint64{0, 1, 42, 1 << 40} {
		got, err := BytesToULong(ULongToBytes(n))
		if err != nil {
			t.Fatal(err)
		}
		if got != n {
			t.Fatal("Conversion looks wrong!", "want", n, "got", got)
		}
	}
	if _, err := BytesToULong([]byte{1, 2}); err == nil {
		t.Fatal("Expect an error for a short buffer")
	}
}

func TestULongToBytesOrdering(t *testing.T) {
	a := ULongToBytes(255)
	b := ULongToBytes(256)
	if bytes.Compare(a, b) >= 0 {
		t.Fatal("Expect encoded values to sort numerically")
	}
}

func TestWriteFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out")
	if err := WriteFile(file, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatal("Unexpected file content", string(got))
	}
	if err := WriteFile(file, []byte("again"), 0600); err == nil {
		t.Fatal("Expect WriteFile to refuse overwriting")
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		file, other, want string
	}{
		{"audit.db", "/etc/veriai/config.toml", "/etc/veriai/audit.db"},
		{"/var/lib/audit.db", "/etc/veriai/config.toml", "/var/lib/audit.db"},
		{"", "/etc/veriai/config.toml", ""},
	}
	for _, tt := range tests {
		if got := ResolvePath(tt.file, tt.other); got != tt.want {
			t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.file, tt.other, got, tt.want)
		}
	}
}

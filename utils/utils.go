package utils

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// ULongToBytes converts an uint64 variable to byte array
// in big endian format, so that encoded values sort
// in numeric order when used as database keys.
func ULongToBytes(num uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, num)
	return buf
}

// BytesToULong is the inverse of ULongToBytes.
// It returns an error if bs is not exactly 8 bytes long.
func BytesToULong(bs []byte) (uint64, error) {
	if len(bs) != 8 {
		return 0, fmt.Errorf("expected 8 bytes, got %d", len(bs))
	}
	return binary.BigEndian.Uint64(bs), nil
}

// WriteFile writes buf to a file whose path is indicated by filename.
// It refuses to overwrite an existing file.
func WriteFile(filename string, buf []byte, perm os.FileMode) error {
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("Can't write file. File '%s' already exists",
			filename)
	}

	if err := os.WriteFile(filename, buf, perm); err != nil {
		return err
	}
	return nil
}

// ResolvePath returns the absolute path of file.
// This will use other as a base path if file is just a file name.
// An empty file stays empty.
func ResolvePath(file, other string) string {
	if file == "" {
		return file
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(filepath.Dir(other), file)
	}
	return file
}

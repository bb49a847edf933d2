// Package sourcefs finds source files on disk and reads and writes them as
// decoded text.
package sourcefs

import "os"

// ContentReader is a function that reads file content given a file path.
// This allows callers and tests to control where bytes come from.
type ContentReader func(filePath string) ([]byte, error)

// FilesystemContentReader reads files from disk.
func FilesystemContentReader() ContentReader {
	return os.ReadFile
}

package cpu

import (
	"os"

	"github.com/pkg/errors"
)

// ReadROM reads a ROM image from disk and rejects images that do not fit in
// program memory.
func ReadROM(filename string) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading rom")
	}
	if info.IsDir() {
		return nil, errors.Errorf("reading rom: %s is a directory", filename)
	}
	if info.Size() > MaxROMSize {
		return nil, romTooLarge(int(info.Size()))
	}

	rom, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading rom")
	}
	if len(rom) > MaxROMSize {
		return nil, romTooLarge(len(rom))
	}
	return rom, nil
}

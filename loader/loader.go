// Package loader builds a [vm.Program] and [vm.Memory] from on-disk image
// formats. Loader failures are returned as plain wrapped errors; a
// [vm.Processor] is never constructed from a partially loaded image.
package loader

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gopherriscv/rv32i-emulator/vm"
)

// objectMagic identifies a linked binary object produced by this package.
// It stands in for "a standard linked executable with two named sections".
var objectMagic = [8]byte{'R', 'V', '3', '2', 'O', 'B', 'J', 0}

// objectHeader is the fixed 16-byte header of a .robj file: an 8-byte magic
// followed by two little-endian uint32 section word counts.
type objectHeader struct {
	Magic     [8]byte
	TextWords uint32
	DataWords uint32
}

// LoadHexProgram reads a line-oriented text file, one %x-formatted 32-bit
// word per line, into a [vm.Program]. Blank lines are skipped; anything
// else that fails to parse as hex is a loader-level error.
func LoadHexProgram(path string) (*vm.Program, error) {
	words, err := loadHexWords(path)
	if err != nil {
		return nil, fmt.Errorf("load hex program %s: %w", path, err)
	}

	return vm.NewProgram(words), nil
}

// LoadHexMemory reads a line-oriented text file in the same format as
// [LoadHexProgram] into a [vm.Memory] of exactly len(words) words.
func LoadHexMemory(path string) (*vm.Memory, error) {
	words, err := loadHexWords(path)
	if err != nil {
		return nil, fmt.Errorf("load hex memory %s: %w", path, err)
	}

	return vm.NewMemoryFromWords(words), nil
}

func loadHexWords(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []uint32
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var w uint32
		if _, err := fmt.Sscanf(line, "%x", &w); err != nil {
			return nil, fmt.Errorf("line %d: malformed hex word %q: %w", lineNo, line, err)
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading line %d: %w", lineNo, err)
	}

	return words, nil
}

// LoadObject reads a minimal linked object file: a fixed header (magic,
// text word count, data word count) followed by the text section words and
// then the data section words, each a 4-byte little-endian uint32.
//
// The returned Program holds the text section; the returned Memory is
// sized to vm.DefaultMemoryWords with the data section copied in starting
// at vm.DefaultDataStartWord, matching the example program's memory map.
func LoadObject(path string) (*vm.Program, *vm.Memory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load object %s: %w", path, err)
	}

	text, data, err := parseObject(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("load object %s: %w", path, err)
	}

	if vm.DefaultDataStartWord+len(data) > vm.DefaultMemoryWords {
		return nil, nil, fmt.Errorf("load object %s: data section overruns default memory map (%d words at offset %d, map holds %d)",
			path, len(data), vm.DefaultDataStartWord, vm.DefaultMemoryWords)
	}

	mem := vm.NewMemory(vm.DefaultMemoryWords)
	for i, w := range data {
		if err := mem.WriteWord(uint32((vm.DefaultDataStartWord+i)*4), w); err != nil {
			return nil, nil, fmt.Errorf("load object %s: writing data word %d: %w", path, i, err)
		}
	}

	return vm.NewProgram(text), mem, nil
}

func parseObject(raw []byte) (text, data []uint32, err error) {
	r := bytes.NewReader(raw)

	var hdr objectHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}
	if hdr.Magic != objectMagic {
		return nil, nil, fmt.Errorf("bad magic %q, want %q", hdr.Magic, objectMagic)
	}

	text, err = readWords(r, int(hdr.TextWords))
	if err != nil {
		return nil, nil, fmt.Errorf("reading text section: %w", err)
	}
	data, err = readWords(r, int(hdr.DataWords))
	if err != nil {
		return nil, nil, fmt.Errorf("reading data section: %w", err)
	}

	return text, data, nil
}

func readWords(r io.Reader, n int) ([]uint32, error) {
	words := make([]uint32, n)
	for i := range words {
		if err := binary.Read(r, binary.LittleEndian, &words[i]); err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}
	}

	return words, nil
}

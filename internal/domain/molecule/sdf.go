package molecule

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// SDFHeader is the molfile header of the first record in an SD file.  It is
// informational only; proxied bodies are never rewritten.
type SDFHeader struct {
	Title   string
	Program string
	Comment string
	Atoms   int
	Bonds   int
	// Version is "V2000" or "V3000".
	Version string
	// Records counts "$$$$" terminators; a single molfile without one is 1.
	Records int
}

// Is3D reports whether the program line declares 3D coordinates.
func (h SDFHeader) Is3D() bool {
	return len(h.Program) >= 22 && strings.EqualFold(h.Program[20:22], "3D")
}

// ParseSDFHeader reads the three header lines and the counts line of the
// first molfile.  V3000 files carry their counts in the CTAB block instead,
// so only Version is filled for them.
func ParseSDFHeader(b []byte) (SDFHeader, error) {
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	var h SDFHeader
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if len(lines) < 4 {
			lines = append(lines, line)
		}
		if strings.HasPrefix(line, "$$$$") {
			h.Records++
		}
	}
	if err := sc.Err(); err != nil {
		return SDFHeader{}, fmt.Errorf("sdf: %w", err)
	}
	if len(lines) < 4 {
		return SDFHeader{}, fmt.Errorf("sdf: header truncated after %d lines", len(lines))
	}
	if h.Records == 0 {
		h.Records = 1
	}

	h.Title = strings.TrimSpace(lines[0])
	h.Program = lines[1]
	h.Comment = strings.TrimSpace(lines[2])

	counts := lines[3]
	switch {
	case strings.Contains(counts, "V3000"):
		h.Version = "V3000"
		return h, nil
	case strings.Contains(counts, "V2000"):
		h.Version = "V2000"
	default:
		return SDFHeader{}, fmt.Errorf("sdf: counts line has no version tag: %q", counts)
	}
	if len(counts) < 6 {
		return SDFHeader{}, fmt.Errorf("sdf: counts line too short: %q", counts)
	}

	var err error
	if h.Atoms, err = strconv.Atoi(strings.TrimSpace(counts[0:3])); err != nil {
		return SDFHeader{}, fmt.Errorf("sdf: atom count: %w", err)
	}
	if h.Bonds, err = strconv.Atoi(strings.TrimSpace(counts[3:6])); err != nil {
		return SDFHeader{}, fmt.Errorf("sdf: bond count: %w", err)
	}
	return h, nil
}

//Personal.AI order the ending

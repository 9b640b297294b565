package lut

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// The .cube text format (Adobe/Resolve convention): a TITLE line, the
// lattice size, the domain bounds, then Size³ data rows of three floats
// with R incrementing fastest and B slowest. That ordering matches this
// package's LUT storage, so serialization is a linear sweep.

// WriteCube serializes the LUT in .cube format.
func (l *LUT) WriteCube(w io.Writer, title string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "TITLE %q\n", title)
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n", l.Size)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "DOMAIN_MIN 0.0 0.0 0.0")
	fmt.Fprintln(bw, "DOMAIN_MAX 1.0 1.0 1.0")
	fmt.Fprintln(bw)
	for i := 0; i < len(l.Data); i += 3 {
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n", l.Data[i], l.Data[i+1], l.Data[i+2])
	}
	return bw.Flush()
}

// SaveCube writes the LUT to a .cube file.
func (l *LUT) SaveCube(path, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = l.WriteCube(f, title)
	errc := f.Close()
	if err == nil {
		err = errc
	}
	return err
}

// ReadCube parses a .cube file. Comment and header lines are skipped; the
// number of data rows must be exactly Size³.
func ReadCube(r io.Reader) (*LUT, error) {
	size := 0
	var data []float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "TITLE"),
			strings.HasPrefix(line, "DOMAIN_MIN"),
			strings.HasPrefix(line, "DOMAIN_MAX"):
			continue
		case strings.HasPrefix(line, "LUT_3D_SIZE"):
			fields := strings.Fields(line)
			n, err := strconv.Atoi(fields[len(fields)-1])
			if err != nil || n < 2 {
				return nil, fmt.Errorf("%w: bad LUT_3D_SIZE line %q", ErrFormat, line)
			}
			size = n
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		var row [3]float64
		ok := true
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				ok = false
				break
			}
			row[i] = v
		}
		if ok {
			data = append(data, row[0], row[1], row[2])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: missing LUT_3D_SIZE", ErrFormat)
	}
	if expected := size * size * size * 3; len(data) != expected {
		return nil, fmt.Errorf("%w: %d data rows, expected %d", ErrFormat, len(data)/3, expected/3)
	}
	return &LUT{Size: size, Data: data}, nil
}

// LoadCube reads a LUT from a .cube file.
func LoadCube(path string) (*LUT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCube(f)
}

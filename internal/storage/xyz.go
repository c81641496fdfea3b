package storage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/mdsim/internal/md"
	"github.com/san-kum/mdsim/internal/vec"
)

// Frame is one configuration read from an XYZ file.
type Frame struct {
	Comment   string
	Names     []string
	Positions []vec.Vec3
}

// WriteXYZ writes the current positions in XYZ format, one line per
// particle named after its LJ type.
func WriteXYZ(w io.Writer, s *md.State, comment string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", s.Len())
	e := s.Box.Edges
	fmt.Fprintf(bw, "%s box=%g,%g,%g\n", strings.ReplaceAll(comment, "\n", " "), e[0], e[1], e[2])
	for _, p := range s.Particles() {
		name := s.Types[p.Type].Name
		if name == "" {
			name = "X" + strconv.Itoa(p.Type)
		}
		fmt.Fprintf(bw, "%s %.10g %.10g %.10g\n", name, p.Position[0], p.Position[1], p.Position[2])
	}
	return bw.Flush()
}

// maxPrealloc caps the capacity reserved from the header count. Larger frames
// grow as atoms are read, so a corrupt count cannot force a huge allocation.
const maxPrealloc = 4096

func ReadXYZ(r io.Reader) (*Frame, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return nil, fmt.Errorf("xyz: missing atom count")
	}
	n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("xyz: bad atom count %q", sc.Text())
	}
	if !sc.Scan() {
		return nil, fmt.Errorf("xyz: missing comment line")
	}

	size := n
	if size > maxPrealloc {
		size = maxPrealloc
	}
	frame := &Frame{
		Comment:   sc.Text(),
		Names:     make([]string, 0, size),
		Positions: make([]vec.Vec3, 0, size),
	}
	for i := 0; i < n; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("xyz: expected %d atoms, got %d", n, i)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			return nil, fmt.Errorf("xyz: atom %d: want name and three coordinates", i)
		}
		var p vec.Vec3
		for axis := 0; axis < 3; axis++ {
			if p[axis], err = strconv.ParseFloat(fields[axis+1], 64); err != nil {
				return nil, fmt.Errorf("xyz: atom %d: %w", i, err)
			}
		}
		frame.Names = append(frame.Names, fields[0])
		frame.Positions = append(frame.Positions, p)
	}
	return frame, sc.Err()
}

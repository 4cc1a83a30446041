package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ReadOBJ reads the polygon part of a Wavefront OBJ stream. Vertex ("v"),
// face ("f") and polyline ("l") records are used, everything else is ignored.
// Indices are 1-based, negative indices count back from the last vertex.
// Polyline segments are loose edges: when present the edge list holds every
// face edge followed by them.
func ReadOBJ(r io.Reader) (*SurfaceMesh, error) {
	var (
		msh     = &SurfaceMesh{}
		scanner = bufio.NewScanner(r)
		lineNum int
		lines   [][2]int
	)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNum)
			}
			var coords [3]float64
			for j := 0; j < 3; j++ {
				val, err := strconv.ParseFloat(fields[1+j], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid coordinate: %v", lineNum, err)
				}
				coords[j] = val
			}
			msh.Vertices = append(msh.Vertices, r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]})
		case "f", "l":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: %q record needs at least 2 vertices", lineNum, fields[0])
			}
			loop := make([]int, len(fields)-1)
			for j, tok := range fields[1:] {
				vi, err := objIndex(tok, len(msh.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %v", lineNum, err)
				}
				loop[j] = vi
			}
			if fields[0] == "f" {
				msh.Faces = append(msh.Faces, loop)
				continue
			}
			for j := 0; j < len(loop)-1; j++ {
				lines = append(lines, [2]int{loop[j], loop[j+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	msh.addLooseEdges(lines)
	return msh, nil
}

// objIndex resolves a "v", "v/vt", "v//vn" or "v/vt/vn" token to a 0-based vertex index
func objIndex(tok string, numVerts int) (vi int, err error) {
	if idx := strings.Index(tok, "/"); idx >= 0 {
		tok = tok[:idx]
	}
	if vi, err = strconv.Atoi(tok); err != nil {
		return 0, fmt.Errorf("invalid vertex index %q", tok)
	}
	switch {
	case vi > 0:
		vi--
	case vi < 0:
		vi += numVerts
	default:
		return 0, fmt.Errorf("vertex index 0 is not valid")
	}
	if vi < 0 || vi >= numVerts {
		return 0, fmt.Errorf("vertex index %s out of range [1,%d]", tok, numVerts)
	}
	return
}

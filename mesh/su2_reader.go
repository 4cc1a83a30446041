package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/quadnurbs/utils"
)

// SU2 (VTK) element type ids
const (
	su2Line     = 3
	su2Triangle = 5
	su2Quad     = 9
)

// ReadSU2 reads an SU2 native format stream as a surface mesh. Triangle and
// quad elements become faces, line elements are loose edges appended to the
// face edge list. Volume elements are skipped; surface elements listed under
// boundary markers are added as faces, so the boundary of a volume mesh can
// be read directly.
func ReadSU2(r io.Reader) (*SurfaceMesh, error) {
	var (
		msh                = &SurfaceMesh{}
		scanner            = bufio.NewScanner(r)
		ndime              int
		hasNDIME, hasNPOIN bool
		skippedVolume      int
		lines              [][2]int
		err                error
	)

	nextLine := func() (string, bool) {
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if idx := strings.Index(line, "%"); idx >= 0 {
				line = strings.TrimSpace(line[:idx])
			}
			if line != "" {
				return line, true
			}
		}
		return "", false
	}

	// addElement parses "type n0 n1 ..." into a face or edges
	addElement := func(fields []string) error {
		etype, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("invalid element type: %v", err)
		}
		var numNodes int
		switch etype {
		case su2Line:
			numNodes = 2
		case su2Triangle:
			numNodes = 3
		case su2Quad:
			numNodes = 4
		default:
			skippedVolume++
			return nil
		}
		if len(fields) < numNodes+1 {
			return fmt.Errorf("element type %d expects %d nodes, got %d fields",
				etype, numNodes, len(fields)-1)
		}
		nodes := make([]int, numNodes)
		for j := 0; j < numNodes; j++ {
			if nodes[j], err = strconv.Atoi(fields[1+j]); err != nil {
				return fmt.Errorf("invalid node index: %v", err)
			}
			if nodes[j] < 0 || nodes[j] >= len(msh.Vertices) {
				return fmt.Errorf("node index %d out of range [0,%d)", nodes[j], len(msh.Vertices))
			}
		}
		if etype == su2Line {
			lines = append(lines, [2]int{nodes[0], nodes[1]})
		} else {
			msh.Faces = append(msh.Faces, nodes)
		}
		return nil
	}

	for {
		line, ok := nextLine()
		if !ok {
			break
		}
		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			fmt.Sscanf(line, "NDIME=%d", &ndime)
			if ndime != 2 && ndime != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", ndime)
			}

		case strings.HasPrefix(line, "NPOIN="):
			if !hasNDIME {
				return nil, fmt.Errorf("NPOIN found before NDIME")
			}
			hasNPOIN = true
			var npoin int
			fmt.Sscanf(line, "NPOIN=%d", &npoin)
			msh.Vertices = make([]r3.Vec, npoin)
			for i := 0; i < npoin; i++ {
				pl, ok := nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(pl)
				if len(fields) < ndime {
					return nil, fmt.Errorf("invalid node line: expected at least %d coordinates", ndime)
				}
				var coords [3]float64 // Always 3D, z = 0 for 2D meshes
				for j := 0; j < ndime; j++ {
					if coords[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, fmt.Errorf("invalid coordinate: %v", err)
					}
				}
				msh.Vertices[i] = r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]}
			}

		case strings.HasPrefix(line, "NELEM="):
			if !hasNPOIN {
				return nil, fmt.Errorf("NELEM found before NPOIN")
			}
			var nelem int
			fmt.Sscanf(line, "NELEM=%d", &nelem)
			for i := 0; i < nelem; i++ {
				el, ok := nextLine()
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				if err = addElement(strings.Fields(el)); err != nil {
					return nil, err
				}
			}

		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			fmt.Sscanf(line, "NMARK=%d", &nmark)
			for i := 0; i < nmark; i++ {
				tagLine, ok := nextLine()
				if !ok || !strings.HasPrefix(tagLine, "MARKER_TAG=") {
					return nil, fmt.Errorf("expected MARKER_TAG= for marker %d", i)
				}
				elemLine, ok := nextLine()
				var nMarkerElems int
				if !ok {
					return nil, fmt.Errorf("unexpected EOF reading marker %d", i)
				}
				if _, err = fmt.Sscanf(elemLine, "MARKER_ELEMS=%d", &nMarkerElems); err != nil {
					return nil, fmt.Errorf("invalid MARKER_ELEMS line: %s", elemLine)
				}
				for j := 0; j < nMarkerElems; j++ {
					el, ok := nextLine()
					if !ok {
						return nil, fmt.Errorf("unexpected EOF reading boundary elements")
					}
					fields := strings.Fields(el)
					// Boundary lines of 2D meshes carry no surface
					if len(fields) == 0 || fields[0] == strconv.Itoa(su2Line) {
						continue
					}
					if err = addElement(fields); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}
	if !hasNDIME {
		return nil, fmt.Errorf("missing NDIME")
	}
	msh.addLooseEdges(lines)
	if skippedVolume > 0 {
		utils.Logger().Warn("skipped non surface SU2 elements", "count", skippedVolume)
	}
	return msh, nil
}

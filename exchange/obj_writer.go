package exchange

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/quadnurbs/nurbs"
)

// WriteOBJ writes every patch as a Wavefront rational B-spline surface. The
// OBJ surface statement lists control vertices with u varying fastest, so the
// row-major grid is transposed on output. Vertex indices are 1-based and
// global to the file.
func WriteOBJ(w io.Writer, pf *PatchFile) (err error) {
	bw := bufio.NewWriter(w)
	if pf.Title != "" {
		fmt.Fprintf(bw, "# %s\n", pf.Title)
	}
	fmt.Fprintf(bw, "# %d rational bspline patches\n", len(pf.Patches))
	offset := 1
	for _, pr := range pf.Patches {
		var s *nurbs.Surface
		if s, err = pr.Surface(); err != nil {
			return err
		}
		nu, nv := s.SizeU(), s.SizeV()
		fmt.Fprintf(bw, "o mesh_%d_face_%d\n", pr.Mesh, pr.Face)
		for u := 0; u < nu; u++ {
			for v := 0; v < nv; v++ {
				pt := s.ControlPoint(u, v)
				fmt.Fprintf(bw, "v %s %s %s %s\n", ff(pt.X), ff(pt.Y), ff(pt.Z), ff(s.Weight(u, v)))
			}
		}
		u0, u1 := s.DomainU()
		v0, v1 := s.DomainV()
		fmt.Fprintln(bw, "cstype rat bspline")
		fmt.Fprintf(bw, "deg %d %d\n", s.DegreeU(), s.DegreeV())
		fmt.Fprintf(bw, "surf %s %s %s %s", ff(u0), ff(u1), ff(v0), ff(v1))
		for v := 0; v < nv; v++ {
			for u := 0; u < nu; u++ {
				fmt.Fprintf(bw, " %d", offset+u*nv+v)
			}
		}
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "parm u %s\n", joinFloats(s.KnotsU()))
		fmt.Fprintf(bw, "parm v %s\n", joinFloats(s.KnotsV()))
		fmt.Fprintln(bw, "end")
		offset += nu * nv
	}
	return bw.Flush()
}

func ff(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func joinFloats(vals []float64) string {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = ff(v)
	}
	return strings.Join(s, " ")
}

func vecs(pts [][3]float64) (out []r3.Vec) {
	out = make([]r3.Vec, len(pts))
	for i, p := range pts {
		out[i] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
	}
	return
}

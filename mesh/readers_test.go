package mesh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

const objQuads = `# two quads and a triangle
o strip
v 0 0 0
v 1 0 0
v 2 0 0
v 0 1 0
v 1 1 0
v 2 1 0.5
vn 0 0 1
vt 0 0
f 1/1/1 2/1/1 5/1/1 4/1/1
f 2//1 3//1 6//1 5//1
f -4 -1 -2
l 1 4 3
`

func TestReadOBJ(t *testing.T) {
	{ // Vertices, faces with all index token forms, polylines
		msh, err := ReadOBJ(strings.NewReader(objQuads))
		require.NoError(t, err)
		assert.Len(t, msh.Vertices, 6)
		assert.Equal(t, r3.Vec{X: 2, Y: 1, Z: 0.5}, msh.Vertices[5])
		assert.Equal(t, [][]int{{0, 1, 4, 3}, {1, 2, 5, 4}, {2, 5, 4}}, msh.Faces)
		// Face edges first, then the polyline segment no face uses
		assert.Equal(t, [][2]int{{0, 1}, {1, 4}, {3, 4}, {0, 3}, {1, 2}, {2, 5}, {4, 5}, {2, 4}, {2, 3}}, msh.Edges)
	}
	{ // Errors carry the line number
		testCases := []struct {
			name    string
			content string
			errMsg  string
		}{
			{"short vertex", "v 1 2\n", "line 1"},
			{"bad coordinate", "v 1 x 2\n", "invalid coordinate"},
			{"index out of range", "v 0 0 0\nv 1 0 0\nf 1 2 3\n", "out of range"},
			{"zero index", "v 0 0 0\nv 1 0 0\nf 0 1 2\n", "not valid"},
			{"bad index", "v 0 0 0\nf a b c\n", "invalid vertex index"},
			{"short face", "v 0 0 0\nf 1\n", "at least 2"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := ReadOBJ(strings.NewReader(tc.content))
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
			})
		}
	}
}

const su2Surface = `% quad surface
NDIME= 3
NPOIN= 5
0.0 0.0 0.0
1.0 0.0 0.0
1.0 1.0 0.0
0.0 1.0 0.0
2.0 0.0 0.0
NELEM= 2
9 0 1 2 3
5 1 4 2
NMARK= 1
MARKER_TAG= edge
MARKER_ELEMS= 1
3 0 1
`

const su2Volume = `NDIME= 3
NPOIN= 5
0 0 0
1 0 0
1 1 0
0 1 0
0 0 1
NELEM= 1
14 0 1 2 3 4
NMARK= 2
MARKER_TAG= base
MARKER_ELEMS= 1
9 0 3 2 1
MARKER_TAG= side
MARKER_ELEMS= 1
5 0 1 4
`

func TestReadSU2(t *testing.T) {
	{ // Surface mesh with triangles and quads
		msh, err := ReadSU2(strings.NewReader(su2Surface))
		require.NoError(t, err)
		assert.Len(t, msh.Vertices, 5)
		assert.Equal(t, [][]int{{0, 1, 2, 3}, {1, 4, 2}}, msh.Faces)
		assert.Empty(t, msh.Edges)
	}
	{ // Volume mesh: boundary markers supply the faces
		msh, err := ReadSU2(strings.NewReader(su2Volume))
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 3, 2, 1}, {0, 1, 4}}, msh.Faces)
	}
	{ // 2D mesh gets z = 0, line elements become loose edges
		msh, err := ReadSU2(strings.NewReader("NDIME= 2\nNPOIN= 2\n0.5 1.5\n2 3\nNELEM= 1\n3 0 1\n"))
		require.NoError(t, err)
		assert.Equal(t, []r3.Vec{{X: 0.5, Y: 1.5}, {X: 2, Y: 3}}, msh.Vertices)
		assert.Equal(t, [][2]int{{0, 1}}, msh.Edges)
	}
	{
		testCases := []struct {
			name    string
			content string
			errMsg  string
		}{
			{"invalid dimension", "NDIME= 4\nNPOIN= 0\n", "unsupported dimension"},
			{"missing dimension", "NPOIN= 0\n", "NDIME"},
			{"node out of range", "NDIME= 3\nNPOIN= 1\n0 0 0\nNELEM= 1\n5 0 1 2\n", "out of range"},
			{"truncated nodes", "NDIME= 3\nNPOIN= 3\n0 0 0\n", "EOF"},
			{"short element", "NDIME= 3\nNPOIN= 3\n0 0 0\n1 0 0\n0 1 0\nNELEM= 1\n9 0 1 2\n", "expects 4 nodes"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := ReadSU2(strings.NewReader(tc.content))
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
			})
		}
	}
}

func TestReadYAML(t *testing.T) {
	{
		msh, err := ReadYAML([]byte(`
Vertices:
  - [0, 0, 0]
  - [1, 0, 0]
  - [1, 1, 0.25]
  - [0, 1, 0]
Faces:
  - [0, 1, 2, 3]
`))
		require.NoError(t, err)
		assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 0.25}, msh.Vertices[2])
		assert.Equal(t, [][]int{{0, 1, 2, 3}}, msh.Faces)
		assert.Nil(t, msh.Edges)

		// Round trip through the writer
		data, err := msh.EncodeYAML()
		require.NoError(t, err)
		back, err := ReadYAML(data)
		require.NoError(t, err)
		assert.Equal(t, msh, back)
	}
	{ // JSON is YAML too
		msh, err := ReadYAML([]byte(`{"Vertices": [[0,0,0],[1,0,0],[0,1,0]], "Edges": [[0,1]], "Faces": [[0,1,2]]}`))
		require.NoError(t, err)
		assert.Equal(t, [][2]int{{0, 1}}, msh.Edges)
	}
	{ // Bad index and bad syntax
		_, err := ReadYAML([]byte("Vertices: [[0,0,0]]\nFaces: [[0,1,2]]\n"))
		assert.Error(t, err)
		_, err = ReadYAML([]byte("Vertices: [0, 0"))
		assert.Error(t, err)
	}
}

func TestReadMeshFile(t *testing.T) {
	{
		msh, err := ReadMeshFile(createTempFile(t, "strip.OBJ", objQuads))
		require.NoError(t, err)
		assert.Len(t, msh.Faces, 3)
	}
	{
		msh, err := ReadMeshFile(createTempFile(t, "surf.su2", su2Surface))
		require.NoError(t, err)
		assert.Len(t, msh.Faces, 2)
	}
	{
		msh, err := ReadMeshFile(createTempFile(t, "quad.yaml", "Vertices: [[0,0,0],[1,0,0],[1,1,0],[0,1,0]]\nFaces: [[0,1,2,3]]\n"))
		require.NoError(t, err)
		assert.Len(t, msh.Faces, 1)
	}
	{
		_, err := ReadMeshFile(createTempFile(t, "grid.neu", ""))
		assert.Error(t, err)
		_, err = ReadMeshFile(filepath.Join(t.TempDir(), "missing.obj"))
		assert.Error(t, err)
	}
}

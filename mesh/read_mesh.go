package mesh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadMeshFile reads a surface mesh based on the file extension
func ReadMeshFile(filename string) (*SurfaceMesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".obj", ".su2":
		file, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		if ext == ".obj" {
			return ReadOBJ(file)
		}
		return ReadSU2(file)
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		return ReadYAML(data)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}

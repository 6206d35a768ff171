// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms batch vertices by the M, V and P matrices.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader applies Phong lighting to the flat per-triangle normals.
//
//go:embed mesh.frag
var MeshFragmentShader string

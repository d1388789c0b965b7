// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package requirements

// Interfaces implemented by graph nodes requiring data from the environment.
type (
	// NormalRequirer requires the normal of the surface.
	NormalRequirer interface {
		RequiresNormal(Stage) CoordinateSpace
	}
	// TangentRequirer requires the tangent of the surface.
	TangentRequirer interface {
		RequiresTangent(Stage) CoordinateSpace
	}
	// BitangentRequirer requires the bitangent of the surface.
	BitangentRequirer interface {
		RequiresBitangent(Stage) CoordinateSpace
	}
	// ViewDirectionRequirer requires the direction from the surface to the camera.
	ViewDirectionRequirer interface {
		RequiresViewDirection(Stage) CoordinateSpace
	}
	// PositionRequirer requires the position of the surface.
	PositionRequirer interface {
		RequiresPosition(Stage) CoordinateSpace
	}
	// ScreenPositionRequirer requires the position on the screen.
	ScreenPositionRequirer interface {
		RequiresScreenPosition(Stage) bool
	}
	// VertexColorRequirer requires the color of the vertices.
	VertexColorRequirer interface {
		RequiresVertexColor(Stage) bool
	}
	// FaceSignRequirer requires whether the surface is front facing.
	FaceSignRequirer interface {
		RequiresFaceSign(Stage) bool
	}
	// MeshUVRequirer requires a UV channel of the mesh.
	MeshUVRequirer interface {
		RequiresMeshUV(channel int, stage Stage) bool
	}
	// DepthTextureRequirer requires the depth texture of the camera.
	DepthTextureRequirer interface {
		RequiresDepthTexture(Stage) bool
	}
	// CameraOpaqueTextureRequirer requires the color texture of the opaque objects.
	CameraOpaqueTextureRequirer interface {
		RequiresCameraOpaqueTexture(Stage) bool
	}
)

// Compute returns the requirements of a set of nodes for the given stages.
// Nodes not implementing any requirer interface are ignored.
//
// If includeIntermediateSpaces is true and the tangent space is required,
// the normal, the tangent and the bitangent are also required in world space
// to build the tangent space.
func Compute(nodes []any, stage Stage, includeIntermediateSpaces bool) Requirements {
	var r Requirements
	for _, n := range nodes {
		r = r.Union(of(n, stage))
	}
	if includeIntermediateSpaces && r.spaces()&Tangent != 0 {
		r.Normal |= World
		r.Tangent |= World
		r.Bitangent |= World
	}
	return r
}

func of(n any, stage Stage) Requirements {
	var r Requirements
	if req, ok := n.(NormalRequirer); ok {
		r.Normal = req.RequiresNormal(stage)
	}
	if req, ok := n.(TangentRequirer); ok {
		r.Tangent = req.RequiresTangent(stage)
	}
	if req, ok := n.(BitangentRequirer); ok {
		r.Bitangent = req.RequiresBitangent(stage)
	}
	if req, ok := n.(ViewDirectionRequirer); ok {
		r.ViewDirection = req.RequiresViewDirection(stage)
	}
	if req, ok := n.(PositionRequirer); ok {
		r.Position = req.RequiresPosition(stage)
	}
	if req, ok := n.(ScreenPositionRequirer); ok {
		r.ScreenPosition = req.RequiresScreenPosition(stage)
	}
	if req, ok := n.(VertexColorRequirer); ok {
		r.VertexColor = req.RequiresVertexColor(stage)
	}
	if req, ok := n.(FaceSignRequirer); ok {
		r.FaceSign = req.RequiresFaceSign(stage)
	}
	if req, ok := n.(MeshUVRequirer); ok {
		for i := range r.MeshUV {
			r.MeshUV[i] = req.RequiresMeshUV(i, stage)
		}
	}
	if req, ok := n.(DepthTextureRequirer); ok {
		r.DepthTexture = req.RequiresDepthTexture(stage)
	}
	if req, ok := n.(CameraOpaqueTextureRequirer); ok {
		r.CameraOpaqueTexture = req.RequiresCameraOpaqueTexture(stage)
	}
	return r
}

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

// Package requirements computes what a graph needs from the environment
// executing it: coordinate spaces, mesh data, screen data and per-element attributes.
package requirements

import (
	"strings"
)

// CoordinateSpace is a set of coordinate spaces.
type CoordinateSpace uint8

const (
	// Object space of the mesh.
	Object CoordinateSpace = 1 << iota
	// View space of the camera.
	View
	// World space, relative to the camera for camera-relative rendering.
	World
	// Tangent space of the surface.
	Tangent
	// AbsoluteWorld space.
	AbsoluteWorld

	// NoSpace is the empty set of coordinate spaces.
	NoSpace CoordinateSpace = 0
)

var spaceNames = []struct {
	space CoordinateSpace
	name  string
}{
	{Object, "object"},
	{View, "view"},
	{World, "world"},
	{Tangent, "tangent"},
	{AbsoluteWorld, "absoluteWorld"},
}

func (s CoordinateSpace) String() string {
	if s == NoSpace {
		return "none"
	}
	var names []string
	for _, sn := range spaceNames {
		if s&sn.space != 0 {
			names = append(names, sn.name)
		}
	}
	return strings.Join(names, "|")
}

// Stage is a set of shader stages.
type Stage uint8

const (
	// Vertex shader stage.
	Vertex Stage = 1 << iota
	// Fragment shader stage.
	Fragment

	// AllStages is the set of all stages.
	AllStages = Vertex | Fragment
)

// NumUVChannels is the number of mesh UV channels.
const NumUVChannels = 4

// Requirements are the data a graph needs from the environment executing it.
type Requirements struct {
	Normal        CoordinateSpace
	Tangent       CoordinateSpace
	Bitangent     CoordinateSpace
	ViewDirection CoordinateSpace
	Position      CoordinateSpace

	ScreenPosition      bool
	VertexColor         bool
	FaceSign            bool
	MeshUV              [NumUVChannels]bool
	DepthTexture        bool
	CameraOpaqueTexture bool
}

// Union returns the requirements of both r and o.
func (r Requirements) Union(o Requirements) Requirements {
	u := Requirements{
		Normal:              r.Normal | o.Normal,
		Tangent:             r.Tangent | o.Tangent,
		Bitangent:           r.Bitangent | o.Bitangent,
		ViewDirection:       r.ViewDirection | o.ViewDirection,
		Position:            r.Position | o.Position,
		ScreenPosition:      r.ScreenPosition || o.ScreenPosition,
		VertexColor:         r.VertexColor || o.VertexColor,
		FaceSign:            r.FaceSign || o.FaceSign,
		DepthTexture:        r.DepthTexture || o.DepthTexture,
		CameraOpaqueTexture: r.CameraOpaqueTexture || o.CameraOpaqueTexture,
	}
	for i := range u.MeshUV {
		u.MeshUV[i] = r.MeshUV[i] || o.MeshUV[i]
	}
	return u
}

// spaces returns the union of all the coordinate spaces required.
func (r Requirements) spaces() CoordinateSpace {
	return r.Normal | r.Tangent | r.Bitangent | r.ViewDirection | r.Position
}

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

import "fmt"

// SlotKind is the kind of data provided to a graph input slot.
type SlotKind int

const (
	// NormalSlot provides the surface normal.
	NormalSlot SlotKind = iota
	// TangentSlot provides the surface tangent.
	TangentSlot
	// BitangentSlot provides the surface bitangent.
	BitangentSlot
	// ViewDirectionSlot provides the direction to the camera.
	ViewDirectionSlot
	// PositionSlot provides the surface position.
	PositionSlot
	// ScreenPositionSlot provides the position on the screen.
	ScreenPositionSlot
	// VertexColorSlot provides the vertex color.
	VertexColorSlot
	// FaceSignSlot provides whether the surface is front facing.
	FaceSignSlot
	// UVSlot provides a mesh UV channel.
	UVSlot
	// DepthTextureSlot provides the camera depth texture.
	DepthTextureSlot
	// CameraOpaqueTextureSlot provides the camera opaque color texture.
	CameraOpaqueTextureSlot
)

var slotKindNames = map[SlotKind]string{
	NormalSlot:              "normal",
	TangentSlot:             "tangent",
	BitangentSlot:           "bitangent",
	ViewDirectionSlot:       "viewDirection",
	PositionSlot:            "position",
	ScreenPositionSlot:      "screenPosition",
	VertexColorSlot:         "vertexColor",
	FaceSignSlot:            "faceSign",
	UVSlot:                  "uv",
	DepthTextureSlot:        "depthTexture",
	CameraOpaqueTextureSlot: "cameraOpaqueTexture",
}

func (k SlotKind) String() string {
	if s, ok := slotKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("SlotKind(%d)", int(k))
}

// Slot is an input slot of a graph bound to data provided by the environment.
// It implements the requirer interfaces matching its kind.
type Slot struct {
	Kind SlotKind
	// Space of the data for spatial kinds.
	Space CoordinateSpace
	// Channel of a UV slot.
	Channel int
	// Stages in which the slot is read. Zero means all stages.
	Stages Stage
}

var (
	_ NormalRequirer              = Slot{}
	_ TangentRequirer             = Slot{}
	_ BitangentRequirer           = Slot{}
	_ ViewDirectionRequirer       = Slot{}
	_ PositionRequirer            = Slot{}
	_ ScreenPositionRequirer      = Slot{}
	_ VertexColorRequirer         = Slot{}
	_ FaceSignRequirer            = Slot{}
	_ MeshUVRequirer              = Slot{}
	_ DepthTextureRequirer        = Slot{}
	_ CameraOpaqueTextureRequirer = Slot{}
)

func (s Slot) active(kind SlotKind, stage Stage) bool {
	stages := s.Stages
	if stages == 0 {
		stages = AllStages
	}
	return s.Kind == kind && stages&stage != 0
}

func (s Slot) space(kind SlotKind, stage Stage) CoordinateSpace {
	if !s.active(kind, stage) {
		return NoSpace
	}
	return s.Space
}

// RequiresNormal returns the space of the normal read by the slot.
func (s Slot) RequiresNormal(stage Stage) CoordinateSpace {
	return s.space(NormalSlot, stage)
}

// RequiresTangent returns the space of the tangent read by the slot.
func (s Slot) RequiresTangent(stage Stage) CoordinateSpace {
	return s.space(TangentSlot, stage)
}

// RequiresBitangent returns the space of the bitangent read by the slot.
func (s Slot) RequiresBitangent(stage Stage) CoordinateSpace {
	return s.space(BitangentSlot, stage)
}

// RequiresViewDirection returns the space of the view direction read by the slot.
func (s Slot) RequiresViewDirection(stage Stage) CoordinateSpace {
	return s.space(ViewDirectionSlot, stage)
}

// RequiresPosition returns the space of the position read by the slot.
func (s Slot) RequiresPosition(stage Stage) CoordinateSpace {
	return s.space(PositionSlot, stage)
}

// RequiresScreenPosition returns true if the slot reads the screen position.
func (s Slot) RequiresScreenPosition(stage Stage) bool {
	return s.active(ScreenPositionSlot, stage)
}

// RequiresVertexColor returns true if the slot reads the vertex color.
func (s Slot) RequiresVertexColor(stage Stage) bool {
	return s.active(VertexColorSlot, stage)
}

// RequiresFaceSign returns true if the slot reads the face sign.
func (s Slot) RequiresFaceSign(stage Stage) bool {
	return s.active(FaceSignSlot, stage)
}

// RequiresMeshUV returns true if the slot reads the given UV channel.
func (s Slot) RequiresMeshUV(channel int, stage Stage) bool {
	return s.active(UVSlot, stage) && s.Channel == channel
}

// RequiresDepthTexture returns true if the slot reads the depth texture.
func (s Slot) RequiresDepthTexture(stage Stage) bool {
	return s.active(DepthTextureSlot, stage)
}

// RequiresCameraOpaqueTexture returns true if the slot reads the opaque texture.
func (s Slot) RequiresCameraOpaqueTexture(stage Stage) bool {
	return s.active(CameraOpaqueTextureSlot, stage)
}

func (s Slot) String() string {
	switch s.Kind {
	case NormalSlot, TangentSlot, BitangentSlot, ViewDirectionSlot, PositionSlot:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Space)
	case UVSlot:
		return fmt.Sprintf("uv%d", s.Channel)
	}
	return s.Kind.String()
}

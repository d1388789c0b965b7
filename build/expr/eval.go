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

package expr

import (
	"math/rand/v2"

	"cogentcore.org/core/math32"
	"github.com/gx-org/vfxgraph/api/values"
	"github.com/pkg/errors"
)

// Camera is the main camera of a scene.
type Camera struct {
	// FOV is the vertical field of view, in degrees.
	FOV         float32
	NearPlane   float32
	FarPlane    float32
	PixelWidth  float32
	PixelHeight float32
}

// DefaultCamera is used when the scene has no main camera.
var DefaultCamera = Camera{
	FOV:         60,
	NearPlane:   0.3,
	FarPlane:    1000,
	PixelWidth:  1920,
	PixelHeight: 1080,
}

// SceneProvider gives access to the state of the scene when evaluating built-in values.
type SceneProvider interface {
	// MainCamera returns the main camera, if any.
	MainCamera() (Camera, bool)
	// LocalToWorld returns the transform of the system, if any.
	LocalToWorld() (math32.Matrix4, bool)
}

// Atlas stores baked curves and gradients for GPU sampling.
type Atlas interface {
	// AddCurve bakes a curve and returns its encoding for sampling.
	AddCurve(values.Curve) (math32.Vector4, error)
	// AddGradient bakes a gradient and returns its encoding for sampling.
	AddGradient(values.Gradient) (float32, error)
}

// EvalContext is the host state available when evaluating nodes on the CPU.
type EvalContext struct {
	Scene SceneProvider
	Atlas Atlas
	Rand  *rand.Rand
}

func (ctx *EvalContext) camera() Camera {
	if ctx.Scene == nil {
		return DefaultCamera
	}
	cam, ok := ctx.Scene.MainCamera()
	if !ok {
		return DefaultCamera
	}
	return cam
}

func (ctx *EvalContext) localToWorld() math32.Matrix4 {
	if ctx.Scene != nil {
		if m, ok := ctx.Scene.LocalToWorld(); ok {
			return m
		}
	}
	return *math32.Identity4()
}

func (ctx *EvalContext) atlas() (Atlas, error) {
	if ctx.Atlas == nil {
		return nil, errors.Errorf("no atlas to bake curves and gradients")
	}
	return ctx.Atlas, nil
}

func (ctx *EvalContext) random() float32 {
	if ctx.Rand == nil {
		return rand.Float32()
	}
	return ctx.Rand.Float32()
}

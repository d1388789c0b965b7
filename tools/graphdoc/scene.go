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

package graphdoc

import (
	"cogentcore.org/core/math32"
	"github.com/gx-org/vfxgraph/build/expr"
)

// scene provides the camera declared in a document.
type scene struct {
	camera expr.Camera
}

var _ expr.SceneProvider = scene{}

func (s scene) MainCamera() (expr.Camera, bool) {
	return s.camera, true
}

func (scene) LocalToWorld() (math32.Matrix4, bool) {
	return math32.Matrix4{}, false
}

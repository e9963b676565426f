// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

import (
	"image"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/fixed"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	device  gpucontext.Device
	queue   gpucontext.Queue
	adapter gpucontext.Adapter
	format  gputypes.TextureFormat
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		device:  &mockDevice{},
		queue:   &mockQueue{},
		adapter: &mockAdapter{},
		format:  gputypes.TextureFormatBGRA8Unorm,
	}
}

func (m *mockProvider) Device() gpucontext.Device             { return m.device }
func (m *mockProvider) Queue() gpucontext.Queue               { return m.queue }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return m.adapter }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// mockBuffer implements Buffer for testing.
type mockBuffer struct {
	format      gputypes.TextureFormat
	fb          uint32
	failEnsure  bool
	ensureCalls int
}

func (b *mockBuffer) Format() gputypes.TextureFormat { return b.format }
func (b *mockBuffer) Framebuffer() uint32            { return b.fb }

func (b *mockBuffer) EnsureFramebuffer(gpucontext.DeviceProvider) error {
	b.ensureCalls++
	if b.failEnsure {
		return errFramebuffer
	}
	b.fb = 1
	return nil
}

var errFramebuffer = &frameBufferError{}

type frameBufferError struct{}

func (*frameBufferError) Error() string { return "framebuffer creation failed" }

// mockPlane implements DisplayPlane for testing. Planes accept every
// layer and format unless configured otherwise.
type mockPlane struct {
	name           string
	universal      bool
	preferred      gputypes.TextureFormat
	preferredVideo gputypes.TextureFormat

	// rejectLayers lists z-orders ValidateLayer refuses.
	rejectLayers map[int]bool

	// unsupported lists formats SupportsFormat refuses.
	unsupported map[gputypes.TextureFormat]bool

	inUse bool
}

func newMockPlane(name string) *mockPlane {
	return &mockPlane{
		name:           name,
		universal:      true,
		preferred:      gputypes.TextureFormatBGRA8Unorm,
		preferredVideo: gputypes.TextureFormatRGBA8Unorm,
	}
}

func (p *mockPlane) Universal() bool                              { return p.universal }
func (p *mockPlane) PreferredFormat() gputypes.TextureFormat      { return p.preferred }
func (p *mockPlane) PreferredVideoFormat() gputypes.TextureFormat { return p.preferredVideo }
func (p *mockPlane) InUse() bool                                  { return p.inUse }
func (p *mockPlane) SetInUse(used bool)                           { p.inUse = used }

func (p *mockPlane) SupportsFormat(format gputypes.TextureFormat) bool {
	return !p.unsupported[format]
}

func (p *mockPlane) ValidateLayer(layer *OverlayLayer) bool {
	return !p.rejectLayers[layer.ZOrder]
}

func (p *mockPlane) reject(zorders ...int) *mockPlane {
	if p.rejectLayers == nil {
		p.rejectLayers = make(map[int]bool)
	}
	for _, z := range zorders {
		p.rejectLayers[z] = true
	}
	return p
}

// mockHandler implements PlaneHandler for testing. commitFn, when set,
// decides TestCommit; the default accepts everything.
type mockHandler struct {
	planes   []DisplayPlane
	commitFn func([]PlaneBinding) bool
	commits  int
}

func (h *mockHandler) PopulatePlanes() ([]DisplayPlane, error) {
	return h.planes, nil
}

func (h *mockHandler) TestCommit(bindings []PlaneBinding) bool {
	h.commits++
	if h.commitFn != nil {
		return h.commitFn(bindings)
	}
	return true
}

// surfaceZOrder marks descriptor layers of mock surfaces so commitFn
// hooks can tell targets from input layers.
const surfaceZOrder = -1

// mockSurface implements NativeSurface for testing.
type mockSurface struct {
	layer  OverlayLayer
	inUse  bool
	cursor bool
	width  int
	height int

	scalarSet   []bool
	frameResets int
	cropResets  int
	bindings    int
}

func newMockSurface(width, height int) *mockSurface {
	return &mockSurface{
		layer: OverlayLayer{
			ZOrder: surfaceZOrder,
			Buffer: &mockBuffer{fb: 1},
		},
		width:  width,
		height: height,
	}
}

func (s *mockSurface) Layer() *OverlayLayer { return &s.layer }
func (s *mockSurface) InUse() bool          { return s.inUse }
func (s *mockSurface) SetInUse(used bool)   { s.inUse = used }

func (s *mockSurface) Init(format gputypes.TextureFormat, cursor bool) {
	s.layer.Buffer.(*mockBuffer).format = format
	s.cursor = cursor
}

func (s *mockSurface) SetPlaneTarget(state *DisplayPlaneState, _ gpucontext.DeviceProvider) {
	s.layer.DisplayFrame = state.DisplayFrame()
	s.layer.SourceCrop = cropFromRect(state.DisplayFrame())
	s.bindings++
}

func (s *mockSurface) ResetDisplayFrame(frame image.Rectangle) {
	s.layer.DisplayFrame = frame
	s.frameResets++
}

func (s *mockSurface) ResetSourceCrop(crop fixed.Rectangle26_6) {
	s.layer.SourceCrop = crop
	s.cropResets++
}

func (s *mockSurface) SetUsePlaneScalar(enable bool) {
	s.scalarSet = append(s.scalarSet, enable)
}

// mockFactory implements SurfaceFactory for testing.
type mockFactory struct {
	created3D    int
	createdVideo int
	surfaces     []*mockSurface
}

func (f *mockFactory) Create3DBuffer(width, height int) NativeSurface {
	f.created3D++
	s := newMockSurface(width, height)
	f.surfaces = append(f.surfaces, s)
	return s
}

func (f *mockFactory) CreateVideoBuffer(width, height int) NativeSurface {
	f.createdVideo++
	s := newMockSurface(width, height)
	f.surfaces = append(f.surfaces, s)
	return s
}

// testLayer builds a scannable layer with a 1:1 crop.
func testLayer(z int, frame image.Rectangle) *OverlayLayer {
	return &OverlayLayer{
		ZOrder:       z,
		DisplayFrame: frame,
		SourceCrop:   cropFromRect(frame),
		Buffer:       &mockBuffer{format: gputypes.TextureFormatBGRA8Unorm, fb: 1},
	}
}

// testCursor builds a scannable cursor layer.
func testCursor(z int, frame image.Rectangle) *OverlayLayer {
	l := testLayer(z, frame)
	l.Cursor = true
	return l
}

// newTestAssigner builds an initialized assigner over count universal
// mock planes.
func newTestAssigner(t *testing.T, count int, opts ...Option) (*Assigner, *mockHandler, *mockFactory) {
	t.Helper()

	planes := make([]DisplayPlane, count)
	for i := range planes {
		planes[i] = newMockPlane(planeName(i))
	}
	handler := &mockHandler{planes: planes}
	factory := &mockFactory{}

	asn := New(handler, factory, newMockProvider(), opts...)
	if err := asn.Initialize(1920, 1080); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	return asn, handler, factory
}

func planeName(i int) string {
	return "plane-" + string(rune('0'+i))
}

// mustPlane fetches the i-th mock plane of an assigner.
func mustPlane(t *testing.T, asn *Assigner, i int) *mockPlane {
	t.Helper()
	p, ok := asn.planes[i].(*mockPlane)
	if !ok {
		t.Fatalf("plane %d is %T, want *mockPlane", i, asn.planes[i])
	}
	return p
}

package zoomtree

import "testing"

// nullPainter discards all drawing.
type nullPainter struct{}

func (nullPainter) Clear(*RenderContext, Color)         {}
func (nullPainter) Paint(*Shape, Style, *RenderContext) {}

// setupBenchScene creates a Scene with n rectangles laid out on a 100-wide
// grid of 40-unit cells, grouped into rows, observed by one 1280x720 camera.
func setupBenchScene(n int) (*Scene, *Camera, []NodeID) {
	s := NewScene()
	layer := s.NewGroup("layer")
	leaves := make([]NodeID, 0, n)
	var row NodeID
	for i := 0; i < n; i++ {
		if i%100 == 0 {
			row = s.NewGroup("row")
			_ = s.AddChild(layer, row)
		}
		r := s.NewShape("r", RectShape(0, 0, 32, 32), DefaultStyle)
		s.SetPosition(r, float64(i%100)*40, float64(i/100)*40)
		_ = s.AddChild(row, r)
		leaves = append(leaves, r)
	}
	cam := s.NewCamera("bench", NewBounds(0, 0, 1280, 720))
	_ = cam.AddLayer(layer)
	s.Update(0)
	return s, cam, leaves
}

// --- Render benchmarks ---

func BenchmarkFlush_10000_FullRepaint(b *testing.B) {
	s, cam, _ := setupBenchScene(10000)
	s.Flush(cam, nullPainter{}, nil) // warmup

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Damage().DamageAll(cam)
		s.Flush(cam, nullPainter{}, nil)
	}
}

func BenchmarkFlush_10000_SmallDamage(b *testing.B) {
	s, cam, leaves := setupBenchScene(10000)
	s.Flush(cam, nullPainter{}, nil)
	target := leaves[5]

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.SetPosition(target, float64(200+i%2), 0)
		s.Update(0)
		s.Flush(cam, nullPainter{}, nil)
	}
}

func BenchmarkFlush_10000_Raster(b *testing.B) {
	s, cam, _ := setupBenchScene(10000)
	p := NewRasterPainter(1280, 720)
	s.Flush(cam, p, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Damage().DamageAll(cam)
		s.Flush(cam, p, nil)
	}
}

// --- Cache benchmarks ---

func BenchmarkUpdate_10000_AllMoved(b *testing.B) {
	s, _, leaves := setupBenchScene(10000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		dx := float64(i % 2)
		for j, id := range leaves {
			s.SetPosition(id, float64(j%100)*40+dx, float64(j/100)*40)
		}
		s.Update(0)
	}
}

func BenchmarkValidate_10000_Clean(b *testing.B) {
	s, _, _ := setupBenchScene(10000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.ValidateBounds()
	}
}

// --- Picking benchmarks ---

func BenchmarkPick_10000(b *testing.B) {
	s, cam, _ := setupBenchScene(10000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Pick(cam, 500, 50)
	}
}

func BenchmarkFind_10000(b *testing.B) {
	s, cam, _ := setupBenchScene(10000)
	rect := NewBounds(100, 100, 300, 300)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = s.Find(cam, rect, nil)
	}
}

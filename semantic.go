package zoomtree

import "math"

// SemanticZoom makes a group render a simplified placeholder instead of its
// children when viewed below a magnification cutoff. Within FadeRange of the
// cutoff the placeholder and children cross-fade.
type SemanticZoom struct {
	// Cutoff is the composite magnification at which children take over.
	Cutoff float64

	// FadeRange is the half-width of the cross-fade band as a fraction of
	// Cutoff. The band runs from Cutoff*(1-FadeRange) to Cutoff*(1+FadeRange).
	// Zero switches hard at Cutoff.
	FadeRange float64

	// Placeholder is drawn in the group's local space when zoomed out.
	Placeholder      Shape
	PlaceholderStyle Style
}

// sanitized clamps parameters into their usable range.
func (sz SemanticZoom) sanitized() SemanticZoom {
	if sz.Cutoff < 0 || math.IsNaN(sz.Cutoff) || math.IsInf(sz.Cutoff, 0) {
		sz.Cutoff = 0
	}
	if math.IsNaN(sz.FadeRange) || sz.FadeRange < 0 {
		sz.FadeRange = 0
	}
	if sz.FadeRange > 1 {
		sz.FadeRange = 1
	}
	sz.Placeholder = sz.Placeholder.clone()
	return sz
}

// Band returns the magnifications bounding the cross-fade.
func (sz *SemanticZoom) Band() (lo, hi float64) {
	return sz.Cutoff * (1 - sz.FadeRange), sz.Cutoff * (1 + sz.FadeRange)
}

// Alphas returns the opacity of the placeholder and of the children at
// magnification mag. At or below the band only the placeholder shows, at or
// above it only the children, and in between they fade linearly.
func (sz *SemanticZoom) Alphas(mag float64) (placeholder, children float64) {
	lo, hi := sz.Band()
	if hi <= lo {
		if mag >= sz.Cutoff {
			return 0, 1
		}
		return 1, 0
	}
	switch {
	case mag <= lo:
		return 1, 0
	case mag >= hi:
		return 0, 1
	}
	t := (mag - lo) / (hi - lo)
	return 1 - t, t
}

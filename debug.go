package zoomtree

import (
	"fmt"
	"io"
	"time"
)

// Diagnostics collects render statistics. Pass one to Flush or Draw to enable
// counting; a nil *Diagnostics disables it. When Log is set, a summary line
// per flushed camera and tree-shape warnings are written to it.
type Diagnostics struct {
	// Log receives "[zoomtree] ..." lines. Usually os.Stderr.
	Log io.Writer

	CamerasFlushed int
	NodesVisited   int
	NodesPruned    int
	ShapesPainted  int
	DamageArea     float64
	FlushTime      time.Duration

	warned map[NodeID]bool
}

// Reset zeroes the counters. Warnings already issued are not repeated.
func (d *Diagnostics) Reset() {
	if d == nil {
		return
	}
	d.CamerasFlushed = 0
	d.NodesVisited = 0
	d.NodesPruned = 0
	d.ShapesPainted = 0
	d.DamageArea = 0
	d.FlushTime = 0
}

func (d *Diagnostics) logf(format string, args ...any) {
	if d == nil || d.Log == nil {
		return
	}
	_, _ = fmt.Fprintf(d.Log, "[zoomtree] "+format+"\n", args...)
}

// logFlush prints the counters accumulated for one camera flush.
func (d *Diagnostics) logFlush(cam *Camera, region Bounds, visited, pruned, painted int, elapsed time.Duration) {
	d.logf("flush %q: region %.0fx%.0f at (%.0f,%.0f) | visited: %d | pruned: %d | painted: %d | time: %v",
		cam.Name, region.Width, region.Height, region.X, region.Y, visited, pruned, painted, elapsed)
}

const (
	debugMaxTreeDepth  = 32
	debugMaxChildCount = 1000
)

// checkNode warns once per node if the tree is unusually deep or wide at it.
func (d *Diagnostics) checkNode(id NodeID, n *node, depth int) {
	if d == nil || d.Log == nil || d.warned[id] {
		return
	}
	var warn bool
	if depth > debugMaxTreeDepth {
		d.logf("warning: tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.name)
		warn = true
	}
	if len(n.children) > debugMaxChildCount {
		d.logf("warning: node %q has %d children (threshold %d)", n.name, len(n.children), debugMaxChildCount)
		warn = true
	}
	if warn {
		if d.warned == nil {
			d.warned = make(map[NodeID]bool)
		}
		d.warned[id] = true
	}
}

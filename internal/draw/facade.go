// If you are AI: this file implements the drawing facade's apply routine
// and the cache invalidation helpers.
// Package draw implements the drawing facade: a single apply routine that
// looks up the target surface, forwards the op to the canvas
// collaborator, and emits invalidate when the target is primary.
package draw

import (
	"log"

	"displaychannel/internal/cache"
	"displaychannel/internal/surface"
)

// InvalidateSink receives the invalidate(x, y, w, h) signal emitted for
// every drawing op that lands on the primary surface.
type InvalidateSink interface {
	Invalidate(rect surface.Rect)
}

// Apply looks up op.SurfaceID in reg and forwards the op to its canvas.
// Unknown surface ids are logged and ignored. When the target is the primary surface, an
// invalidate event covering op.Rect is emitted to sink.
func Apply(reg *surface.Registry, sink InvalidateSink, op Op) error {
	s := reg.Find(op.SurfaceID)
	if s == nil {
		log.Printf("draw: unknown surface id %d, ignoring op %d", op.SurfaceID, op.Kind)
		return nil
	}

	var err error
	switch op.Kind {
	case Fill:
		err = s.Canvas.Fill(op.Rect, op.Clip, op.Operand)
	case Opaque:
		err = s.Canvas.Opaque(op.Rect, op.Clip, op.Operand)
	case Copy:
		err = s.Canvas.Copy(op.Rect, op.Clip, op.Operand)
	case Blend:
		err = s.Canvas.Blend(op.Rect, op.Clip, op.Operand)
	case Blackness:
		err = s.Canvas.Blackness(op.Rect, op.Clip)
	case Whiteness:
		err = s.Canvas.Whiteness(op.Rect, op.Clip)
	case Invers:
		err = s.Canvas.Invers(op.Rect, op.Clip)
	case Rop3:
		err = s.Canvas.Rop3(op.Rect, op.Clip, op.Operand)
	case Stroke:
		err = s.Canvas.Stroke(op.Rect, op.Clip, op.Operand)
	case Text:
		err = s.Canvas.Text(op.Rect, op.Clip, op.Operand)
	case Transparent:
		err = s.Canvas.Transparent(op.Rect, op.Clip, op.Operand)
	case AlphaBlend:
		err = s.Canvas.AlphaBlend(op.Rect, op.Clip, op.Operand)
	case Composite:
		err = s.Canvas.Composite(op.Rect, op.Clip, op.Operand)
	case CopyBits:
		err = s.Canvas.CopyBits(op.Rect, op.Clip, op.SrcX, op.SrcY)
	}
	if err != nil {
		return err
	}

	if s.Primary && sink != nil {
		sink.Invalidate(op.Rect)
	}
	return nil
}

// InvalList removes named pixmap ids from the image cache. Unknown ids
// are logged and ignored.
func InvalList(c *cache.ImageCache, ids []uint64) {
	for _, id := range ids {
		if !c.Remove(id) {
			log.Printf("draw: inval_list: unknown pixmap id %d, ignoring", id)
		}
	}
}

// InvalAllPixmaps waits for the supplied cross-channel barrier to drain
// (a "wait for named channels" primitive supplied by the dispatcher),
// then clears the image cache. A nil barrier clears immediately.
func InvalAllPixmaps(c *cache.ImageCache, barrier func()) {
	if barrier != nil {
		barrier()
	}
	c.Clear()
}

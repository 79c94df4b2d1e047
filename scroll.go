package goscroll

// ScrollMetrics is a reading of a scroll container's geometry.
type ScrollMetrics struct {
	// Top current scroll offset from the top of the content.
	Top int
	// Height total content height.
	Height int
	// ClientHeight visible height of the container.
	ClientHeight int
}

// DistanceToBottom returns how far the visible area is from the end of the
// content. Negative when the content is shorter than the container.
func (m ScrollMetrics) DistanceToBottom() int {
	return m.Height - m.Top - m.ClientHeight
}

// reachedEdge reports whether the trigger edge for direction is within threshold.
func (m ScrollMetrics) reachedEdge(direction Direction, threshold int) bool {
	if direction == DirectionTop {
		return m.Top <= threshold
	}

	return m.DistanceToBottom() <= threshold
}

// ScrollTarget is a scroll container the controller can observe.
type ScrollTarget interface {
	// ScrollMetrics reads the current geometry.
	ScrollMetrics() ScrollMetrics
	// OnScroll registers fn for scroll events. The returned detach function
	// removes the listener and must be safe to call more than once.
	OnScroll(fn func()) (detach func())
}

// TargetResolver turns a reference into a concrete scroll container. It may
// return nil when the container is not available, which disables
// scroll-triggered loading.
type TargetResolver func() ScrollTarget

// StaticTarget resolves to target.
func StaticTarget(target ScrollTarget) TargetResolver {
	return func() ScrollTarget {
		return target
	}
}

// resolve is nil-safe.
func (r TargetResolver) resolve() ScrollTarget {
	if r == nil {
		return nil
	}

	return r()
}

package renderer

import "github.com/pthm-cable/letterflock/flock"

// DrawQueue collects draw requests issued while the simulation ticks so they
// can be replayed inside BeginDrawing/EndDrawing. Requests keep their issue
// order, which is the draw (z) order.
type DrawQueue struct {
	reqs []flock.DrawRequest
}

// NewDrawQueue creates an empty queue.
func NewDrawQueue() *DrawQueue {
	return &DrawQueue{}
}

// Draw implements flock.Drawer.
func (q *DrawQueue) Draw(req flock.DrawRequest) {
	q.reqs = append(q.reqs, req)
}

// Len returns the number of pending requests.
func (q *DrawQueue) Len() int {
	return len(q.reqs)
}

// Reset drops pending requests.
func (q *DrawQueue) Reset() {
	q.reqs = q.reqs[:0]
}

// Flush replays pending requests to target in order and empties the queue.
func (q *DrawQueue) Flush(target flock.Drawer) {
	for _, req := range q.reqs {
		target.Draw(req)
	}
	q.Reset()
}

// Package crawl — BFS queue with deduplication.
// --all discovery queues the directories or index pages it still has to
// list, and collects remote manifest links in a second Queue so a manifest
// linked from several pages is exported once.
package crawl

// Queue holds pending locations in first-seen order.
type Queue struct {
	pending []string
	seen    map[string]bool
	next    int // index of the next location to list
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		seen: make(map[string]bool),
	}
}

// Add enqueues loc unless it was already queued.
func (q *Queue) Add(loc string) {
	if q.seen[loc] {
		return
	}
	q.seen[loc] = true
	q.pending = append(q.pending, loc)
}

// HasNext reports whether a queued location has not been listed yet.
func (q *Queue) HasNext() bool {
	return q.next < len(q.pending)
}

// Next returns the next location to list.
func (q *Queue) Next() string {
	loc := q.pending[q.next]
	q.next++
	return loc
}

// Visited returns how many distinct locations were queued. Discovery
// stops once it passes maxLocations.
func (q *Queue) Visited() int {
	return len(q.seen)
}

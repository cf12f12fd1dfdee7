// Package notify fans domain events out to per-user notification rooms and
// hands email jobs to the mail sink.
package notify

import (
	"sync"
	"sync/atomic"
)

const roomPrefix = "notifications_"

// DefaultSubscriberBuffer is the per-connection frame buffer.
const DefaultSubscriberBuffer = 32

// RoomName returns the notification room of a user.
func RoomName(userID string) string {
	return roomPrefix + userID
}

// Subscription is one connection's membership in a room. Frames arrive on C
// until Unsubscribe closes it.
type Subscription struct {
	C    <-chan []byte
	room string
	ch   chan []byte
}

func (s *Subscription) Room() string { return s.room }

// Hub keeps the in-process subscribers of every room.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Subscription]struct{}
	buffer  int
	dropped atomic.Int64
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &Hub{
		rooms:  make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

func (h *Hub) Subscribe(room string) *Subscription {
	ch := make(chan []byte, h.buffer)
	sub := &Subscription{C: ch, room: room, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Subscription]struct{})
		h.rooms[room] = members
	}
	members[sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub from its room and closes its channel. Calling it
// twice is harmless.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[sub.room]
	if !ok {
		return
	}
	if _, ok := members[sub]; !ok {
		return
	}
	delete(members, sub)
	close(sub.ch)
	if len(members) == 0 {
		delete(h.rooms, sub.room)
	}
}

// Broadcast offers frame to every subscriber of room without blocking and
// returns how many accepted it. Full buffers drop the frame.
func (h *Hub) Broadcast(room string, frame []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for sub := range h.rooms[room] {
		select {
		case sub.ch <- frame:
			delivered++
		default:
			h.dropped.Add(1)
		}
	}
	return delivered
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Dropped counts frames discarded because a subscriber was too slow.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

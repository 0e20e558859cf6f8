package controllers

import (
	"encoding/json"
	"io"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/lintang-b-s/routeplanner/pkg/notify"
	"go.uber.org/zap"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many notices may queue for a slow user before it is dropped.
	sendBuffer = 16
)

type User struct {
	io   sync.Mutex
	conn net.Conn

	send      chan interface{}
	done      chan struct{}
	closeOnce sync.Once

	id  uint
	hub *Hub
}

// writeLoop delivers queued messages until the user is closed or a write fails.
func (u *User) writeLoop() {
	for {
		select {
		case <-u.done:
			return
		case msg := <-u.send:
			if err := u.write(msg); err != nil {
				u.hub.log.Info("dropping websocket user", zap.Uint("id", u.id), zap.Error(err))
				u.hub.Remove(u)
				return
			}
		}
	}
}

// enqueue never blocks. It reports false when the user's queue is full.
func (u *User) enqueue(msg interface{}) bool {
	select {
	case <-u.done:
		return false
	default:
	}
	select {
	case u.send <- msg:
		return true
	default:
		return false
	}
}

func (u *User) close() {
	u.closeOnce.Do(func() {
		close(u.done)
		u.conn.Close()
	})
}

// Listen consumes client frames until the connection closes. Clients only
// receive notices, so data frames are discarded.
func (u *User) Listen() error {
	for {
		h, r, err := wsutil.NextReader(u.conn, ws.StateServerSide)
		if err != nil {
			return err
		}
		if h.OpCode.IsControl() {
			if err := u.handleControl(h, r); err != nil {
				return err
			}
			continue
		}
		if _, err := io.Copy(io.Discard, r); err != nil {
			return err
		}
	}
}

func (u *User) handleControl(h ws.Header, r io.Reader) error {
	u.io.Lock()
	defer u.io.Unlock()
	return wsutil.ControlFrameHandler(u.conn, ws.StateServerSide)(h, r)
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	_ = u.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// Hub keeps the connected websocket users and broadcasts every notice to them.
type Hub struct {
	log *zap.Logger

	mu  sync.RWMutex
	seq uint
	us  []*User
	ns  map[uint]*User
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log: log,
		ns:  make(map[uint]*User),
		us:  make([]*User, 0),
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
		send: make(chan interface{}, sendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	go user.writeLoop()
	return user
}

// Remove closes the user's connection and forgets it. Removing twice is a no-op.
func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.ns[user.id]; !ok {
		return
	}
	delete(h.ns, user.id)

	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})

	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs

	user.close()
}

func (h *Hub) RemoveAllUser() {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	for _, user := range users {
		h.Remove(user)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.us)
}

// Notify queues n for every connected user and returns without waiting for
// any write. Users whose queue is full are dropped.
func (h *Hub) Notify(n notify.Notice) {
	h.mu.RLock()
	users := make([]*User, len(h.us))
	copy(users, h.us)
	h.mu.RUnlock()

	msg := envelope{"notice": n}
	for _, user := range users {
		if !user.enqueue(msg) {
			h.log.Info("dropping slow websocket user", zap.Uint("id", user.id))
			h.Remove(user)
		}
	}
}

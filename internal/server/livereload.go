package server

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// reloadHub tracks connected live-reload clients and tells them to
// refresh when the output tree changes.
type reloadHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newReloadHub() *reloadHub {
	return &reloadHub{clients: make(map[*websocket.Conn]bool)}
}

func (h *reloadHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Drain until the client goes away.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *reloadHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// broadcast sends one text message to every connected client.
func (h *reloadHub) broadcast(msg string) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			h.drop(c)
		}
	}
}

// watch polls the output tree's newest modification time and broadcasts
// a reload whenever it advances (for example after another `ttweave
// weave` run).
func (h *reloadHub) watch(ctx context.Context, dir string, interval time.Duration) {
	last := newestMTime(dir)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := newestMTime(dir)
			if cur.After(last) {
				last = cur
				h.broadcast("reload")
			}
		}
	}
}

// newestMTime returns the latest modification time under dir.
func newestMTime(dir string) time.Time {
	var newest time.Time
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	return newest
}

package media

import (
	"sync"

	"github.com/google/uuid"
)

// Previews tracks the preview handles handed out for local images. Every
// handle must be revoked once its image is replaced, committed or discarded.
type Previews struct {
	mu   sync.Mutex
	live map[string]*File
}

func NewPreviews() *Previews {
	return &Previews{live: map[string]*File{}}
}

func (p *Previews) create(f *File) string {
	handle := "preview:" + uuid.NewString()
	p.mu.Lock()
	p.live[handle] = f
	p.mu.Unlock()
	return handle
}

func (p *Previews) revoke(handle string) {
	if handle == "" {
		return
	}
	p.mu.Lock()
	if f, ok := p.live[handle]; ok {
		f.Data = nil
		delete(p.live, handle)
	}
	p.mu.Unlock()
}

// Live reports how many handles are still open.
func (p *Previews) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

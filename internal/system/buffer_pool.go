package system

import (
	"bytes"
	"sync"
)

// BufferPool предоставляет механизмы повторного использования bytes.Buffer
// для снижения нагрузки на Garbage Collector (GC). Буферы разложены по
// классам размера (степени двойки), чтобы большой файл не раздувал пул
// маленьких.
type BufferPool struct {
	pools map[int]*sync.Pool
	mu    sync.RWMutex
}

// Буферы больше этого размера в пул не возвращаются.
const maxPooledBuffer = 64 << 20

var globalPool = &BufferPool{
	pools: make(map[int]*sync.Pool),
}

// GetBuffer возвращает пустой буфер с ёмкостью не меньше sizeHint.
func GetBuffer(sizeHint int) *bytes.Buffer {
	return globalPool.Get(sizeHint)
}

// PutBuffer возвращает буфер в пул для повторного использования.
func PutBuffer(buf *bytes.Buffer) {
	globalPool.Put(buf)
}

// sizeClass округляет n вверх до степени двойки, минимум 4 КБ.
func sizeClass(n int) int {
	c := 4 << 10
	for c < n {
		c <<= 1
	}
	return c
}

func (p *BufferPool) Get(sizeHint int) *bytes.Buffer {
	key := sizeClass(sizeHint)
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return bytes.NewBuffer(make([]byte, 0, key))
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	buf := pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledBuffer {
		return
	}
	// Класс по фактической ёмкости, округлённой вниз, чтобы Get всегда
	// получал буфер не меньше запрошенного.
	key := sizeClass(buf.Cap())
	if key > buf.Cap() {
		key >>= 1
	}
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(buf)
	}
}

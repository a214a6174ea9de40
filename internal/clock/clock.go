package clock

import (
	"sync"
	"time"
)

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// Func адаптер функции к Clock
type Func func() time.Time

// Now возвращает значение функции
func (f Func) Now() time.Time { return f() }

// System системные часы в UTC
var System Clock = Func(func() time.Time { return time.Now().UTC() })

// Monotonic выдает строго возрастающие метки времени.
// Если системные часы вернули значение не больше предыдущего
// (два события в одну наносекунду, перевод часов назад), метка
// сдвигается на 1ns вперед от последней выданной.
type Monotonic struct {
	last   time.Time
	source Clock
	mu     sync.Mutex
}

// NewMonotonic создает монотонные часы поверх source (nil = System)
func NewMonotonic(source Clock) *Monotonic {
	if source == nil {
		source = System
	}
	return &Monotonic{source: source}
}

// Now возвращает следующую метку времени
func (m *Monotonic) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.source.Now()
	if !now.After(m.last) {
		now = m.last.Add(time.Nanosecond)
	}
	m.last = now

	return now
}

// Observe учитывает внешнюю метку (например, последнюю из хранилища
// после перезапуска), чтобы следующие метки были больше нее.
func (m *Monotonic) Observe(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.After(m.last) {
		m.last = t
	}
}

// Last возвращает последнюю выданную или учтенную метку
func (m *Monotonic) Last() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.last
}

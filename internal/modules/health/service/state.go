package service

import (
	"sync/atomic"
	"time"
)

// State — разделяемое состояние для health-эндпоинтов. Раннер его
// обновляет, HTTP только читает. Пауза живёт здесь же: один атомарный
// флаг вместо голой переменной между горутинами.
type State struct {
	ready     atomic.Bool
	paused    atomic.Bool
	startedAt time.Time

	lastCycleUnix atomic.Int64 // unix seconds
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetPaused(v bool) { s.paused.Store(v) }
func (s *State) Paused() bool     { return s.paused.Load() }

func (s *State) TouchCycle(t time.Time) { s.lastCycleUnix.Store(t.Unix()) }
func (s *State) LastCycle() time.Time {
	u := s.lastCycleUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

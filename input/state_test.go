package input

import (
	"sync"
	"testing"
	"time"
)

func TestRotateWraps(t *testing.T) {
	s := NewState(8, DefaultDebounce)
	s.SetLimit(5)
	now := time.Unix(100, 0)

	s.Rotate(-1, now)
	if got := s.Selection(); got != 4 {
		t.Errorf("rotate -1 from 0: got %d, want 4", got)
	}
	s.Rotate(3, now)
	if got := s.Selection(); got != 2 {
		t.Errorf("rotate +3 from 4: got %d, want 2", got)
	}
	s.Rotate(-12, now)
	if got := s.Selection(); got != 0 {
		t.Errorf("rotate -12 from 2: got %d, want 0", got)
	}
	if !s.LastInteraction().Equal(now) {
		t.Errorf("last interaction: got %v", s.LastInteraction())
	}
}

func TestSelectClamps(t *testing.T) {
	s := NewState(4, DefaultDebounce)
	s.SetLimit(6)
	s.TakeRedraw()

	s.Select(5)
	if got := s.Selection(); got != 5 {
		t.Errorf("got %d, want 5", got)
	}
	if !s.TakeRedraw() {
		t.Error("Select should request a redraw")
	}
	s.Select(42)
	if got := s.Selection(); got != 5 {
		t.Errorf("got %d, want 5", got)
	}
	s.Select(-3)
	if got := s.Selection(); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestRotateEmptyList(t *testing.T) {
	s := NewState(8, DefaultDebounce)
	s.Rotate(1, time.Now())
	if s.Selection() != 0 {
		t.Errorf("got %d", s.Selection())
	}
}

func TestRedrawOnPageChange(t *testing.T) {
	s := NewState(4, DefaultDebounce)
	s.SetLimit(10)
	if !s.TakeRedraw() {
		t.Fatal("SetLimit should request a redraw")
	}
	if s.TakeRedraw() {
		t.Fatal("redraw consumed twice")
	}

	now := time.Now()
	s.Rotate(3, now) // 0 -> 3, same page
	if s.TakeRedraw() {
		t.Error("redraw within page")
	}
	s.Rotate(1, now) // 3 -> 4, next page
	if !s.TakeRedraw() {
		t.Error("no redraw across page")
	}
	if got := s.Page(); got != 4 {
		t.Errorf("page: got %d, want 4", got)
	}
}

func TestPressDebounce(t *testing.T) {
	s := NewState(8, 250*time.Millisecond)
	s.SetLimit(3)
	t0 := time.Unix(1000, 0)

	if !s.Press(t0) {
		t.Fatal("first press rejected")
	}
	if s.Press(t0.Add(time.Second)) {
		t.Error("press accepted while one is pending")
	}
	if !s.TakePress() {
		t.Fatal("pending press not taken")
	}
	if s.TakePress() {
		t.Error("press taken twice")
	}
	if s.Press(t0.Add(100 * time.Millisecond)) {
		t.Error("press inside debounce window accepted")
	}
	if !s.Press(t0.Add(300 * time.Millisecond)) {
		t.Error("press after debounce window rejected")
	}

	s.Rotate(1, t0.Add(time.Second))
	if s.TakePress() {
		t.Error("rotation should cancel a pending press")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewState(8, 0)
	s.SetLimit(100)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Rotate(1, time.Now())
			s.Press(time.Now())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if sel := s.Selection(); sel < 0 || sel >= 100 {
				t.Errorf("selection out of range: %d", sel)
				return
			}
			s.TakeRedraw()
			s.TakePress()
		}
	}()
	wg.Wait()

	if got := s.Selection(); got != 1000%100 {
		t.Errorf("got %d, want %d", got, 1000%100)
	}
}

package game

import "testing"

// TestSchedulerFiresAfterDelay 测试回调在延迟到期后触发
func TestSchedulerFiresAfterDelay(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.AfterFunc(100, func() { fired++ })

	s.Advance(50)
	if fired != 0 {
		t.Fatalf("fired too early: %d", fired)
	}
	s.Advance(50)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	s.Advance(1000)
	if fired != 1 {
		t.Errorf("one-shot callback fired again: %d", fired)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
}

// TestSchedulerCancel 测试取消
func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	fired := false
	id := s.AfterFunc(10, func() { fired = true })

	if !s.isPending(id) {
		t.Fatal("timer should be pending")
	}
	if !s.Cancel(id) {
		t.Fatal("Cancel should report success")
	}
	if s.Cancel(id) {
		t.Error("second Cancel should report false")
	}
	if s.Cancel(0) {
		t.Error("Cancel(0) should report false")
	}

	s.Advance(100)
	if fired {
		t.Error("cancelled callback fired")
	}
}

// TestSchedulerOrdering 测试同一帧内多个到期回调按到期时间执行
func TestSchedulerOrdering(t *testing.T) {
	s := NewScheduler()
	var order []int
	s.AfterFunc(30, func() { order = append(order, 3) })
	s.AfterFunc(10, func() { order = append(order, 1) })
	s.AfterFunc(20, func() { order = append(order, 2) })

	s.Advance(100)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

// TestSchedulerCancelFromCallback 测试在回调中取消同帧到期的另一个回调
func TestSchedulerCancelFromCallback(t *testing.T) {
	s := NewScheduler()
	secondFired := false
	var second TimerID
	s.AfterFunc(10, func() { s.Cancel(second) })
	second = s.AfterFunc(20, func() { secondFired = true })

	s.Advance(50)
	if secondFired {
		t.Error("callback cancelled mid-dispatch should not fire")
	}
}

// TestSchedulerRescheduleInCallback 测试回调中新建的零延迟回调延后到下一帧
func TestSchedulerRescheduleInCallback(t *testing.T) {
	s := NewScheduler()
	count := 0
	s.AfterFunc(0, func() {
		count++
		s.AfterFunc(0, func() { count++ })
	})

	s.Advance(16)
	if count != 1 {
		t.Fatalf("count after first Advance = %d, want 1", count)
	}
	s.Advance(16)
	if count != 2 {
		t.Errorf("count after second Advance = %d, want 2", count)
	}
	if s.now() != 32 {
		t.Errorf("Now = %v, want 32", s.now())
	}
}

package ratelimiter

import (
	"testing"
	"time"
)

func TestAllowConsumesBurst(t *testing.T) {
	l := New(1, 2, time.Minute)
	now := time.Now()
	if !l.Allow("client", now) {
		t.Fatal("first token denied")
	}
	if !l.Allow("client", now) {
		t.Fatal("second token denied")
	}
	if l.Allow("client", now) {
		t.Fatal("burst exceeded but allowed")
	}
	if !l.Allow("client", now.Add(time.Second)) {
		t.Fatal("refilled token denied")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Now()
	if !l.Allow("a", now) {
		t.Fatal("a denied")
	}
	if !l.Allow("b", now) {
		t.Fatal("b denied after a consumed its token")
	}
}

func TestNilAndEmptyKeyAreUnlimited(t *testing.T) {
	var l *MapLimiter
	now := time.Now()
	for i := 0; i < 100; i++ {
		if !l.Allow("anyone", now) {
			t.Fatal("nil limiter denied")
		}
	}
	real := New(1, 1, time.Minute)
	for i := 0; i < 100; i++ {
		if !real.Allow("  ", now) {
			t.Fatal("blank key denied")
		}
	}
}

func TestInvalidArgsYieldNilLimiter(t *testing.T) {
	if New(0, 10, time.Minute) != nil {
		t.Fatal("zero rps should disable limiting")
	}
	if New(5, 0, time.Minute) != nil {
		t.Fatal("zero burst should disable limiting")
	}
}

func TestIdleKeysEvicted(t *testing.T) {
	ttl := time.Minute
	l := New(1, 1, ttl)
	t0 := time.Now()
	l.Allow("stale", t0)
	if l.Len() != 1 {
		t.Fatalf("len = %d", l.Len())
	}
	l.Allow("fresh", t0.Add(ttl+time.Second))
	if l.Len() != 1 {
		t.Fatalf("stale key survived sweep: len = %d", l.Len())
	}
}

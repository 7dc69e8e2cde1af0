package timeoutresolver

import (
	"testing"
	"time"
)

func testPolicy() Policy {
	return Policy{
		HandshakeTimeout: 10 * time.Second,
		DefaultIdle:      30 * time.Second,
		DefaultOverall:   300 * time.Second,
		PlannerIdle:      60 * time.Second,
		PlannerOverall:   600 * time.Second,
	}
}

func TestResolve_DefaultPolicy(t *testing.T) {
	got, err := Resolve(testPolicy(), "")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got.Idle != 30*time.Second || got.Overall != 300*time.Second {
		t.Errorf("got = %+v", got)
	}
}

func TestResolve_PlannerPolicy(t *testing.T) {
	got, err := Resolve(testPolicy(), "planner")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got.Idle != 60*time.Second || got.Overall != 600*time.Second {
		t.Errorf("got = %+v", got)
	}
}

func TestResolve_HandshakeDefaultsWhenZero(t *testing.T) {
	p := testPolicy()
	p.HandshakeTimeout = 0
	got, err := Resolve(p, "")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got.Handshake != 15*time.Second {
		t.Errorf("Handshake = %v, want 15s", got.Handshake)
	}
}

func TestResolve_RejectsIdleBelowOneSecond(t *testing.T) {
	p := testPolicy()
	p.DefaultIdle = 500 * time.Millisecond
	if _, err := Resolve(p, ""); err == nil {
		t.Error("expected error for sub-1s idle timeout")
	}
}

func TestResolve_RejectsOverallAboveOneHour(t *testing.T) {
	p := testPolicy()
	p.DefaultOverall = 3601 * time.Second
	if _, err := Resolve(p, ""); err == nil {
		t.Error("expected error for overall timeout above 3600s")
	}
}

func TestResolve_RejectsIdleGreaterThanOverall(t *testing.T) {
	p := testPolicy()
	p.DefaultIdle = 400 * time.Second
	p.DefaultOverall = 300 * time.Second
	if _, err := Resolve(p, ""); err == nil {
		t.Error("expected error when idle exceeds overall")
	}
}

package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatusReportsEachDependency(t *testing.T) {
	svc := NewService().
		Register("database", func(ctx context.Context) error { return nil }).
		Register("redis", nil)

	report, ok := svc.Status(context.Background())
	if !ok {
		t.Fatal("expected healthy status")
	}
	if report["database"] != "ok" || report["redis"] != "disabled" {
		t.Fatalf("unexpected report %v", report)
	}
}

func TestStatusFailsOnUnreachableDependency(t *testing.T) {
	svc := NewService().
		Register("database", func(ctx context.Context) error { return nil }).
		Register("redis", func(ctx context.Context) error { return errors.New("dial tcp: refused") })

	report, ok := svc.Status(context.Background())
	if ok {
		t.Fatal("expected unhealthy status")
	}
	if report["redis"] != "unreachable" || report["database"] != "ok" {
		t.Fatalf("unexpected report %v", report)
	}
}

func TestChecksRunWithDeadline(t *testing.T) {
	var hadDeadline bool
	svc := NewService().Register("database", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	})

	svc.Status(context.Background())
	if !hadDeadline {
		t.Fatal("expected check context to carry a deadline")
	}
}

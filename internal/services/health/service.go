package health

import (
	"context"
	"sort"
	"time"
)

const defaultTimeout = 2 * time.Second

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// Service runs named dependency checks.
type Service struct {
	checks map[string]Check
	// Disabled dependencies are reported but never fail the status.
	disabled []string
	timeout  time.Duration
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{checks: map[string]Check{}, timeout: defaultTimeout}
}

// Register adds a check. A nil check marks the dependency as disabled.
func (s *Service) Register(name string, check Check) *Service {
	if check == nil {
		s.disabled = append(s.disabled, name)
		return s
	}
	s.checks[name] = check
	return s
}

// Status runs every check and returns a per-dependency report.
func (s *Service) Status(ctx context.Context) (map[string]string, bool) {
	report := make(map[string]string, len(s.checks)+len(s.disabled))
	for _, name := range s.disabled {
		report[name] = "disabled"
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	ok := true
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.checks[name](checkCtx)
		cancel()
		if err != nil {
			report[name] = "unreachable"
			ok = false
			continue
		}
		report[name] = "ok"
	}
	return report, ok
}

package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type OkHealthChecker struct {
}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(ctx context.Context) bool {
	return true
}

// AllHealthChecker is healthy when every wrapped checker is.
type AllHealthChecker struct {
	checkers []HealthChecker
}

func NewAllHealthChecker(checkers ...HealthChecker) *AllHealthChecker {
	return &AllHealthChecker{checkers: checkers}
}

func (hc *AllHealthChecker) Healthy(ctx context.Context) bool {
	for _, c := range hc.checkers {
		if !c.Healthy(ctx) {
			return false
		}
	}
	return true
}

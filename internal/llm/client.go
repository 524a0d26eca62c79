// Package llm wraps the hosted model providers behind one small interface.
// Callers see typed availability failures instead of SDK error types, so the
// response pipeline can treat quota, timeout, and outage identically.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why a generation call produced no text.
type FailureKind int

const (
	FailureService FailureKind = iota // provider error, malformed response
	FailureQuota                      // rate limit or quota exhaustion
	FailureTimeout                    // call exceeded its deadline
)

func (k FailureKind) String() string {
	switch k {
	case FailureQuota:
		return "quota"
	case FailureTimeout:
		return "timeout"
	default:
		return "service"
	}
}

// Unavailable is the only error type Generate returns. All three kinds mean
// the same thing to the caller: no draft, fall back to local synthesis.
type Unavailable struct {
	Kind FailureKind
	Err  error
}

func (u *Unavailable) Error() string {
	return fmt.Sprintf("llm unavailable (%s): %v", u.Kind, u.Err)
}

func (u *Unavailable) Unwrap() error { return u.Err }

// Client generates one answer draft from a system instruction and a user
// message. Implementations apply no retries; retry policy belongs to the
// caller.
type Client interface {
	Generate(ctx context.Context, system, user string) (string, error)
	Name() string
}

// classify maps a raw provider error to an Unavailable. Deadline expiry is a
// timeout wherever it surfaces; rate-limit shapes are matched on the message
// because each SDK wraps them differently.
func classify(err error) *Unavailable {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Unavailable{Kind: FailureTimeout, Err: err}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") || strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted") {
		return &Unavailable{Kind: FailureQuota, Err: err}
	}
	return &Unavailable{Kind: FailureService, Err: err}
}

// Package backoff computes exponential backoff delays with jitter. It is a
// standalone policy object deliberately kept separate from any retry loop
// so the same policy can be shared by the LLM client and by ad-hoc
// recovery code without duplicating the math at each call site.
package backoff

import (
	"math"
	"math/rand"
	"time"
)

// Policy defines the parameters for exponential backoff calculation.
type Policy struct {
	// Initial is the delay after the first failure.
	Initial time.Duration
	// Max caps the delay regardless of attempt count.
	Max time.Duration
	// Factor is the exponential multiplier applied per attempt.
	Factor float64
	// Jitter is a randomization fraction in [0,1] applied on top of the base delay.
	Jitter float64
}

// Compute returns the delay before the given attempt (1-based: the delay
// before retrying attempt 2 is Compute(policy, 1), etc.), using the
// package's shared random source.
func Compute(policy Policy, attempt int) time.Duration {
	return ComputeWithRand(policy, attempt, rand.Float64()) // #nosec G404 -- jitter, not security sensitive
}

// ComputeWithRand is Compute with an injected random value in [0,1) for
// deterministic tests.
func ComputeWithRand(policy Policy, attempt int, randomValue float64) time.Duration {
	exp := math.Max(float64(attempt-1), 0)
	base := float64(policy.Initial) * math.Pow(policy.Factor, exp)
	jittered := base + base*policy.Jitter*randomValue
	capped := math.Min(float64(policy.Max), jittered)
	if capped < 0 {
		capped = 0
	}
	return time.Duration(math.Round(capped))
}

// ChatCompletionPolicy is the policy spec §4.1 mandates for LLMClient
// retries: base 1s, cap 8s, factor 2, with jitter to avoid thundering-herd
// retries against the chat-completion endpoint.
func ChatCompletionPolicy() Policy {
	return Policy{
		Initial: time.Second,
		Max:     8 * time.Second,
		Factor:  2,
		Jitter:  0.2,
	}
}

package llm

import "strings"

// Reason categorizes why a chat-completion call failed, for retry and
// event-emission purposes. Classification is string-based rather than
// tied to any one backend's internal error struct layout, since both the
// OpenAI and Anthropic SDKs wrap transport errors differently across
// versions and the message text is the one stable signal both share.
type Reason string

const (
	ReasonRateLimit   Reason = "rate_limit"
	ReasonServerError Reason = "server_error"
	ReasonNetwork     Reason = "network"
	ReasonTimeout     Reason = "timeout"
	ReasonAuth        Reason = "auth"
	ReasonBadRequest  Reason = "bad_request"
	ReasonUnknown     Reason = "unknown"
)

// IsRetryable reports whether spec §4.1's retry policy applies: transient
// HTTP errors (5xx, 429, network reset) are retried; everything else
// (4xx other than 429) is permanent.
func (r Reason) IsRetryable() bool {
	switch r {
	case ReasonRateLimit, ReasonServerError, ReasonNetwork, ReasonTimeout:
		return true
	default:
		return false
	}
}

// Classify inspects an error's text and returns the best-guess Reason.
func Classify(err error) Reason {
	if err == nil {
		return ReasonUnknown
	}
	s := strings.ToLower(err.Error())

	switch {
	case strings.Contains(s, "deadline exceeded"), strings.Contains(s, "context deadline"),
		strings.Contains(s, "timeout"), strings.Contains(s, "timed out"):
		return ReasonTimeout
	case strings.Contains(s, "429"), strings.Contains(s, "rate limit"), strings.Contains(s, "too many requests"):
		return ReasonRateLimit
	case strings.Contains(s, "401"), strings.Contains(s, "403"), strings.Contains(s, "unauthorized"), strings.Contains(s, "invalid api key"):
		return ReasonAuth
	case strings.Contains(s, "connection reset"), strings.Contains(s, "connection refused"),
		strings.Contains(s, "eof"), strings.Contains(s, "broken pipe"), strings.Contains(s, "no such host"):
		return ReasonNetwork
	case strings.Contains(s, "500"), strings.Contains(s, "502"), strings.Contains(s, "503"), strings.Contains(s, "504"),
		strings.Contains(s, "internal server error"), strings.Contains(s, "bad gateway"), strings.Contains(s, "service unavailable"):
		return ReasonServerError
	case strings.Contains(s, "400"), strings.Contains(s, "invalid request"):
		return ReasonBadRequest
	default:
		return ReasonUnknown
	}
}

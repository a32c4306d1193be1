package ai

import (
	"context"
	"errors"

	"github.com/rustam-k0/banana-bot/internal/logger"
)

// Cascade is an ordered, non-empty list of model identifiers tried in
// sequence until one succeeds or the list runs out.
type Cascade []string

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomePolicyBlocked
	OutcomeExhausted
)

// Outcome is the single result of walking a cascade.
type Outcome struct {
	Kind   OutcomeKind
	Result *Result
	Model  string // model that produced Result, on success
	Err    *Error // last classified error, on policy block or exhaustion
}

var errEmptyCascade = &Error{Class: ClassFatal, Message: "no models configured"}

type Dispatcher struct {
	caller Caller
	logger logger.Logger

	// policyStops controls whether a policy rejection from one model
	// aborts the walk. Off by default: thresholds differ per model, so
	// the next one may still accept the prompt.
	policyStops bool
}

func NewDispatcher(caller Caller, policyStops bool, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		caller:      caller,
		policyStops: policyStops,
		logger:      log,
	}
}

// Dispatch walks the cascade left to right, one in-flight call at a
// time, each model attempted at most once. Transient failures move on
// to the next model; fatal ones stop immediately. A walk that saw only
// failures but at least one policy rejection reports PolicyBlocked, so
// the caller can tell "rephrase" apart from "try again later".
func (d *Dispatcher) Dispatch(ctx context.Context, cascade Cascade, req Request) Outcome {
	if len(cascade) == 0 {
		return Outcome{Kind: OutcomeExhausted, Err: errEmptyCascade}
	}

	var lastErr, policyErr *Error
	for _, model := range cascade {
		result, err := d.caller.Generate(ctx, model, req)
		if err == nil {
			return Outcome{Kind: OutcomeSuccess, Result: result, Model: model}
		}

		var aiErr *Error
		if !errors.As(err, &aiErr) {
			aiErr = &Error{Class: ClassFatal, Message: err.Error()}
		}
		lastErr = aiErr

		log := d.logger.WithFields(logger.Fields{
			"model": model,
			"class": aiErr.Class.String(),
			"code":  aiErr.Code,
		})
		switch aiErr.Class {
		case ClassTransient:
			log.Warn("Model unavailable, trying next")
		case ClassPolicy:
			policyErr = aiErr
			if d.policyStops {
				log.Warn("Policy rejection, stopping cascade")
				return Outcome{Kind: OutcomePolicyBlocked, Err: aiErr}
			}
			log.Warn("Policy rejection, trying next")
		default:
			log.WithField("error", aiErr.Message).Error("Fatal model error, stopping cascade")
			return Outcome{Kind: OutcomeExhausted, Err: aiErr}
		}
	}

	if policyErr != nil {
		return Outcome{Kind: OutcomePolicyBlocked, Err: policyErr}
	}
	return Outcome{Kind: OutcomeExhausted, Err: lastErr}
}

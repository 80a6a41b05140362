package intelligence

import (
	"context"
	"errors"
	"strings"

	"cupbot/models"

	"go.uber.org/zap"
)

// ErrNoResponse is returned by a chain in which no responder answered.
var ErrNoResponse = errors.New("no responder produced a reply")

// Request is a free-text message plus what a responder may need to answer it.
type Request struct {
	Business *models.Business
	Message  string
	History  []models.Interaction
}

// Responder answers a message or declines with ok=false so the next one can.
type Responder interface {
	TryRespond(ctx context.Context, req Request) (reply string, ok bool, err error)
}

// Generator produces a reply from a language model.
type Generator interface {
	Generate(ctx context.Context, message string, b *models.Business, history []models.Interaction) (string, error)
}

// Chain asks each responder in turn. The first answer wins.
type Chain []Responder

// NewChain is the standard chain: configured auto responses, then the
// generator when there is one, then keyword rules.
func NewChain(gen Generator) Chain {
	return Chain{
		AutoResponder{},
		&GeneratedResponder{Generator: gen, Logger: zap.L()},
		RuleResponder{},
	}
}

func (c Chain) Respond(ctx context.Context, req Request) (string, error) {
	for _, r := range c {
		reply, ok, err := r.TryRespond(ctx, req)
		if err != nil {
			return "", err
		}
		if ok {
			return reply, nil
		}
	}
	return "", ErrNoResponse
}

// AutoResponder matches the business's trigger phrases anywhere in the
// message, ignoring case.
type AutoResponder struct{}

func (AutoResponder) TryRespond(_ context.Context, req Request) (string, bool, error) {
	if req.Business == nil {
		return "", false, nil
	}
	text := strings.ToLower(req.Message)
	for _, ar := range req.Business.Settings.Customization.AutoResponses {
		trigger := strings.ToLower(strings.TrimSpace(ar.Trigger))
		if trigger == "" {
			continue
		}
		if strings.Contains(text, trigger) {
			return ar.Response, true, nil
		}
	}
	return "", false, nil
}

// GeneratedResponder defers to a Generator. Generator failures are logged and
// treated as a miss.
type GeneratedResponder struct {
	Generator Generator
	Logger    *zap.Logger
}

func (g *GeneratedResponder) TryRespond(ctx context.Context, req Request) (string, bool, error) {
	if g.Generator == nil || req.Business == nil || !req.Business.Settings.Features.AIEnabled() {
		return "", false, nil
	}
	reply, err := g.Generator.Generate(ctx, req.Message, req.Business, req.History)
	if err != nil {
		if g.Logger != nil {
			g.Logger.Warn("generated response failed, falling back to rules",
				zap.String("businessID", req.Business.ID), zap.Error(err))
		}
		return "", false, nil
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", false, nil
	}
	return reply, true, nil
}

package generation

import (
	"context"
	"fmt"
	"log/slog"
)

// draftPrompt asks the model for exactly the JSON shape ParseDraft expects.
const draftPrompt = `Turn the following product description into one software requirement.
Respond with a single JSON object with these keys:
title, description, priority (critical|high|medium|low|nice_to_have),
complexity (trivial|simple|moderate|complex|very_complex),
business_value (0-100), story_points (number),
domain_entity, domain_entities (array), bounded_context.

Description:
%s`

// Generator drafts requirements from free-text descriptions.
type Generator struct {
	completer Completer
	logger    *slog.Logger
}

// NewGenerator constructs a Generator.
func NewGenerator(completer Completer, logger *slog.Logger) *Generator {
	return &Generator{completer: completer, logger: logger}
}

// DraftRequirement asks the model for a draft and parses its answer.
func (g *Generator) DraftRequirement(ctx context.Context, description string) (Draft, error) {
	completion, err := g.completer.Complete(ctx, fmt.Sprintf(draftPrompt, description))
	if err != nil {
		return Draft{}, err
	}

	draft, err := ParseDraft(completion)
	if err != nil {
		g.logger.WarnContext(ctx, "unparseable requirement draft", "error", err.Error())
		return Draft{}, err
	}
	return draft, nil
}

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/verdant-labs/flora-cli/internal/model"
	"github.com/verdant-labs/flora-cli/pkg/anthropic"
)

// SectionPayload is the loosely-typed AI output for one section.
type SectionPayload map[string]any

// FillResult holds the raw per-section payloads plus failure tracking.
// Payloads are not merged into the draft here; that is the assembler's
// job.
type FillResult struct {
	Payloads map[string]SectionPayload
	Failed   []string
	Usage    anthropic.TokenUsage
}

const fillSystemText = "You are a botanical database assistant. Answer with a single valid JSON object containing exactly the requested keys. Use null for anything you do not know. No prose, no markdown fences."

// fillSections drives every schema section through the AI fill service.
// Individual section failures are tolerated until the failure count
// reaches ceil(total * ratio), at which point the stage aborts.
func (p *Pipeline) fillSections(ctx context.Context, name string, hooks *Hooks) (*FillResult, error) {
	total := len(p.schema.Sections)
	maxFailures := int(math.Ceil(float64(total) * p.failureRatio))
	if maxFailures < 1 {
		maxFailures = 1
	}

	result := &FillResult{
		Payloads: make(map[string]SectionPayload, total),
	}

	for i := range p.schema.Sections {
		sec := &p.schema.Sections[i]
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hooks.sectionStart(sec.Key)
		payload, usage, err := p.fillSection(ctx, name, sec)
		hooks.sectionDone(sec.Key, err)

		if err != nil {
			if isCancellation(err) {
				return nil, err
			}
			result.Failed = append(result.Failed, sec.Key)
			zap.L().Warn("pipeline: section fill failed",
				zap.String("name", name),
				zap.String("section", sec.Key),
				zap.Error(err),
			)
			if len(result.Failed) >= maxFailures {
				return nil, eris.Errorf("pipeline: too many fields failed (%d/%d)", len(result.Failed), total)
			}
			continue
		}

		result.Payloads[sec.Key] = payload
		result.Usage.Add(usage)
	}

	return result, nil
}

func (p *Pipeline) fillSection(ctx context.Context, name string, sec *model.Section) (SectionPayload, anthropic.TokenUsage, error) {
	prompt := buildSectionPrompt(name, sec)

	resp, err := p.fill.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.cfg.Anthropic.Model,
		MaxTokens: p.cfg.Anthropic.MaxTokens,
		System:    fillSystemText,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, anthropic.TokenUsage{}, err
	}

	payload, err := parseSectionPayload(resp.Text())
	if err != nil {
		return nil, resp.Usage, eris.Wrapf(err, "pipeline: parse %s payload", sec.Key)
	}
	return payload, resp.Usage, nil
}

func buildSectionPrompt(name string, sec *model.Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plant: %s\nSection: %s\n\nReturn a JSON object with these keys:\n", name, sec.Key)
	for _, f := range sec.Fields {
		fmt.Fprintf(&b, "- %q (%s): %s\n", f.Name, f.Type, f.Hint)
	}
	b.WriteString("\nRespond with the JSON object only.")
	return b.String()
}

// parseSectionPayload extracts the first JSON object from an AI reply,
// tolerating markdown fences and surrounding prose.
func parseSectionPayload(text string) (SectionPayload, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, eris.New("no JSON object in response")
	}

	var payload SectionPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, eris.Wrap(err, "unmarshal payload")
	}
	return payload, nil
}

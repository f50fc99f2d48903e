package questions

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/talentscout/talentscout/internal/inference"
)

const (
	DefaultTemperature  = 0.6
	DefaultMaxNewTokens = 300
	DefaultTimeout      = 90 * time.Second
	DefaultMinLength    = 50
)

// TextGenerator is the remote model the generator tries first.
// Implemented by inference.Client.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, params inference.Parameters) (string, error)
}

// Options tunes a Generator. Zero values take the defaults above.
type Options struct {
	Temperature  float64
	MaxNewTokens int
	Timeout      time.Duration
	// MinLength is the number of characters a remote answer must exceed to
	// be accepted.
	MinLength int
	Table     *Table
}

// Generator produces four interview questions for a tech stack. It asks the
// remote model once and falls back to the local rule table on any failure.
type Generator struct {
	remote TextGenerator
	opts   Options
}

// NewGenerator creates a Generator. remote may be nil, in which case only
// the fallback table is used.
func NewGenerator(remote TextGenerator, opts Options) *Generator {
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxNewTokens <= 0 {
		opts.MaxNewTokens = DefaultMaxNewTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	if opts.Table == nil {
		opts.Table = DefaultTable()
	}
	return &Generator{remote: remote, opts: opts}
}

// Generate returns the questions for techStack. It never fails and never
// returns an empty string.
func (g *Generator) Generate(ctx context.Context, techStack string) string {
	stack := normalizeStack(techStack)

	if g.remote != nil {
		if text, ok := g.tryRemote(ctx, stack); ok {
			slog.Info("questions generated by remote model", "stack", stack, "chars", len(text))
			return text
		}
	}

	q, rule := g.opts.Table.Lookup(stack)
	slog.Info("questions generated from fallback table", "stack", stack, "rule", rule)
	return q
}

func (g *Generator) tryRemote(ctx context.Context, stack string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	raw, err := g.remote.Generate(ctx, BuildPrompt(stack), inference.Parameters{
		Temperature:    g.opts.Temperature,
		MaxNewTokens:   g.opts.MaxNewTokens,
		ReturnFullText: false,
	})
	if err != nil {
		slog.Warn("remote question generation failed", "stack", stack, "error", err)
		return "", false
	}

	text := strings.TrimSpace(raw)
	if len(text) <= g.opts.MinLength {
		slog.Warn("remote question generation too short", "stack", stack, "chars", len(text), "min", g.opts.MinLength)
		return "", false
	}
	return text, true
}

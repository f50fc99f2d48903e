package questions

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/talentscout/talentscout/internal/inference"
)

const javaQuestions = `1. Design a simple REST API for a library management system using Spring Boot. What endpoints would you create and what HTTP methods would you use?

2. You have a list of 10,000 employee records that need to be processed. How would you implement this efficiently in Java, and what would you consider for memory management?

3. Explain how you would implement exception handling in a Java application that reads data from a file and saves it to a database.

4. Write a method that finds the second largest number in an array of integers. What edge cases would you need to handle?`

const genericGeneralProgramming = `1. Describe how you would approach building a new feature in General Programming. What would be your first steps and considerations?

2. You encounter a performance bottleneck in a General Programming application. What tools and techniques would you use to identify and resolve it?

3. How would you implement comprehensive error handling and logging in a General Programming project?

4. Explain how you would structure a General Programming project for maintainability, scalability, and team collaboration.`

// mockRemote implements TextGenerator for testing.
type mockRemote struct {
	response string
	err      error
	delay    time.Duration

	calls      int
	lastPrompt string
	lastParams inference.Parameters
}

func (m *mockRemote) Generate(ctx context.Context, prompt string, params inference.Parameters) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastParams = params
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.response, m.err
}

func TestGenerate_RemoteFails_JavaFallback(t *testing.T) {
	remote := &mockRemote{err: errors.New("connection refused")}
	g := NewGenerator(remote, Options{})

	got := g.Generate(context.Background(), "Java")
	if got != javaQuestions {
		t.Errorf("Generate(Java) = %q, want the Java fallback template", got)
	}
	if remote.calls != 1 {
		t.Errorf("remote calls = %d, want 1", remote.calls)
	}
}

func TestGenerate_EmptyStack_GenericFallback(t *testing.T) {
	g := NewGenerator(&mockRemote{err: errors.New("boom")}, Options{})

	for _, stack := range []string{"", "   \n"} {
		if got := g.Generate(context.Background(), stack); got != genericGeneralProgramming {
			t.Errorf("Generate(%q) = %q, want generic template for General Programming", stack, got)
		}
	}
}

func TestGenerate_RemoteAccepted(t *testing.T) {
	answer := "1. How do goroutines differ from threads?\n2. Explain channels.\n3. What is a context?\n4. How do you test HTTP handlers?"
	remote := &mockRemote{response: "  " + answer + "\n"}
	g := NewGenerator(remote, Options{})

	got := g.Generate(context.Background(), " Go ")
	if got != answer {
		t.Errorf("Generate = %q, want trimmed remote answer", got)
	}
	if !strings.Contains(remote.lastPrompt, "skilled in Go.") {
		t.Errorf("prompt does not carry trimmed stack: %q", remote.lastPrompt)
	}
	if remote.lastParams.Temperature != 0.6 {
		t.Errorf("Temperature = %v, want 0.6", remote.lastParams.Temperature)
	}
	if remote.lastParams.MaxNewTokens != DefaultMaxNewTokens {
		t.Errorf("MaxNewTokens = %d, want %d", remote.lastParams.MaxNewTokens, DefaultMaxNewTokens)
	}
	if remote.lastParams.ReturnFullText {
		t.Error("ReturnFullText should be false")
	}
}

func TestGenerate_ShortAnswerRejected(t *testing.T) {
	remote := &mockRemote{response: "1. Why Python?"}
	g := NewGenerator(remote, Options{})

	got := g.Generate(context.Background(), "Python")
	if !strings.HasPrefix(got, "1. Create a function that reads a CSV file") {
		t.Errorf("expected Python fallback, got %q", got)
	}
}

func TestGenerate_MinLengthBoundary(t *testing.T) {
	exact := strings.Repeat("x", 50)
	g := NewGenerator(&mockRemote{response: exact}, Options{})
	if got := g.Generate(context.Background(), "Rust"); got == exact {
		t.Error("answer of exactly MinLength characters should be rejected")
	}

	longer := strings.Repeat("x", 51)
	g = NewGenerator(&mockRemote{response: longer}, Options{})
	if got := g.Generate(context.Background(), "Rust"); got != longer {
		t.Errorf("answer longer than MinLength should be accepted, got %q", got)
	}
}

func TestGenerate_ConfigurableMinLength(t *testing.T) {
	answer := "1. a\n2. b\n3. c\n4. d"
	g := NewGenerator(&mockRemote{response: answer}, Options{MinLength: 5})
	if got := g.Generate(context.Background(), "Rust"); got != answer {
		t.Errorf("Generate = %q, want %q", got, answer)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	remote := &mockRemote{response: strings.Repeat("late ", 40), delay: time.Second}
	g := NewGenerator(remote, Options{Timeout: 20 * time.Millisecond})

	start := time.Now()
	got := g.Generate(context.Background(), "PHP")
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Generate took %v, expected the timeout to cut it short", elapsed)
	}
	if !strings.HasPrefix(got, "1. Create a secure login system in PHP") {
		t.Errorf("expected PHP fallback, got %q", got)
	}
}

func TestGenerate_NilRemote(t *testing.T) {
	g := NewGenerator(nil, Options{})
	if got := g.Generate(context.Background(), "Java"); got != javaQuestions {
		t.Errorf("Generate = %q, want Java fallback", got)
	}
}

func TestFallback_RuleOrder(t *testing.T) {
	cases := []struct {
		stack string
		rule  string
	}{
		{"Java", "java"},
		{"JavaScript, HTML", "javascript"},
		{"Node.js", "javascript"},
		{"React, JavaScript", "react"},
		{"Java, MySQL", "java"},
		{"PostgreSQL, Python", "sql"},
		{"Python, Django", "python"},
		{"Laravel PHP", "php"},
		{"C#, ASP.NET", "dotnet"},
		{"Rust, Tokio", "generic"},
	}
	for _, c := range cases {
		if _, rule := DefaultTable().Lookup(c.stack); rule != c.rule {
			t.Errorf("Lookup(%q) rule = %q, want %q", c.stack, rule, c.rule)
		}
	}
}

func TestFallback_GenericInterpolatesStack(t *testing.T) {
	got := Fallback("  Elixir, Phoenix ")
	if strings.Contains(got, stackPlaceholder) {
		t.Errorf("placeholder not replaced: %q", got)
	}
	if strings.Count(got, "Elixir, Phoenix") != 4 {
		t.Errorf("expected stack in all four questions, got %q", got)
	}
}

func TestParseTable_RejectsBadTables(t *testing.T) {
	if _, err := ParseTable([]byte("rules:\n  - name: x\n    questions: q\ngeneric: '{{stack}}'\n")); err == nil {
		t.Error("expected error for rule without keywords")
	}
	if _, err := ParseTable([]byte("rules: []\ngeneric: no placeholder\n")); err == nil {
		t.Error("expected error for generic template without placeholder")
	}
	if _, err := ParseTable([]byte("rules: [\n")); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestEveryFallbackHasFourQuestions(t *testing.T) {
	for _, r := range DefaultTable().Rules {
		for i := 1; i <= 4; i++ {
			prefix := string(rune('0'+i)) + ". "
			if !strings.Contains(r.Questions, prefix) {
				t.Errorf("rule %s missing question %d", r.Name, i)
			}
		}
	}
}

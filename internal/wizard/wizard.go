// Package wizard runs the candidate intake conversation on a line-oriented
// terminal: one question per step, re-prompting until each answer is valid.
package wizard

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/talentscout/talentscout/internal/candidate"
	"github.com/talentscout/talentscout/internal/storage"
)

// ErrAborted is returned when input ends before the intake is complete.
var ErrAborted = errors.New("intake aborted")

// QuestionGenerator produces the assessment questions for a tech stack.
type QuestionGenerator interface {
	Generate(ctx context.Context, techStack string) string
}

// RecordSaver persists a finished intake.
type RecordSaver interface {
	Save(rec candidate.Record) (storage.SaveResult, error)
}

const (
	Greeting = "Hello! I'm TalentScout, your intelligent hiring assistant. I'll ask you a few questions to get started."

	defaultAssessmentEmail = storage.DefaultAssessmentEmail
	defaultDeadline        = storage.DefaultDeadline
	contactEmail           = "careers@talentscout.com"
)

// Options configures the text shown to the candidate.
type Options struct {
	AssessmentEmail string
	Deadline        time.Duration
}

// Wizard walks one candidate through the intake steps.
type Wizard struct {
	in    *bufio.Scanner
	out   io.Writer
	gen   QuestionGenerator
	saver RecordSaver
	opts  Options
}

// New creates a Wizard reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer, gen QuestionGenerator, saver RecordSaver, opts Options) *Wizard {
	if opts.AssessmentEmail == "" {
		opts.AssessmentEmail = defaultAssessmentEmail
	}
	if opts.Deadline <= 0 {
		opts.Deadline = defaultDeadline
	}
	return &Wizard{
		in:    bufio.NewScanner(in),
		out:   out,
		gen:   gen,
		saver: saver,
		opts:  opts,
	}
}

// Run collects a full candidate profile, generates the assessment, shows the
// summary and saves the record. A failed save is reported to the candidate
// and returned; the collected record is returned either way.
func (w *Wizard) Run(ctx context.Context) (candidate.Record, error) {
	var rec candidate.Record

	w.println(Greeting)
	w.println()

	steps := []step{
		{"Enter your full name:", text(&rec.Name, "Please enter your name.")},
		{"Enter your email address:", func(s string) string {
			if !candidate.ValidEmail(s) {
				return "Please enter a valid email address."
			}
			rec.Email = s
			return ""
		}},
		{"Enter your 10-digit phone number:", func(s string) string {
			if !candidate.ValidPhone(s) {
				return "Please enter a valid 10-digit phone number."
			}
			rec.Phone = s
			return ""
		}},
		{"Enter your years of experience:", func(s string) string {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return "Please enter a whole number of years (0 or more)."
			}
			rec.Experience = n
			return ""
		}},
		{"Enter your desired position(s):", text(&rec.Position, "Please enter a position.")},
		{"Enter your current location:", text(&rec.Location, "Please enter your location.")},
		{"List the programming languages, frameworks, databases, and tools you're proficient in:", text(&rec.TechStack, "Please describe your tech stack.")},
	}
	for _, st := range steps {
		if err := w.ask(st.prompt, st.accept); err != nil {
			return rec, err
		}
	}

	w.println()
	w.println("Generating questions based on your tech stack...")
	rec.Questions = w.gen.Generate(ctx, rec.TechStack)
	w.showQuestions(rec)

	if _, err := w.readLine("Press Enter once you understand the instructions to see your summary."); err != nil {
		return rec, err
	}

	w.showSummary(rec)

	res, err := w.saver.Save(rec)
	if err != nil {
		slog.Error("intake save failed", "email", rec.Email, "error", err)
		w.println()
		w.println("Warning: we could not record your submission. Please contact " + contactEmail + " so we can follow up.")
		return rec, fmt.Errorf("saving intake: %w", err)
	}
	slog.Debug("intake saved", "outcome", res.Outcome.String(), "path", res.Path)

	w.showClosing()
	return rec, nil
}

// step is one question. accept stores a valid answer and returns "", or
// returns the warning to show before asking again.
type step struct {
	prompt string
	accept func(answer string) string
}

func text(dst *string, warning string) func(string) string {
	return func(s string) string {
		if s == "" {
			return warning
		}
		*dst = s
		return ""
	}
}

// ask prompts until accept takes the trimmed answer.
func (w *Wizard) ask(prompt string, accept func(string) string) error {
	for {
		answer, err := w.readLine(prompt)
		if err != nil {
			return err
		}
		msg := accept(answer)
		if msg == "" {
			return nil
		}
		w.println("  " + msg)
	}
}

func (w *Wizard) readLine(prompt string) (string, error) {
	fmt.Fprintf(w.out, "%s ", prompt)
	if !w.in.Scan() {
		w.println()
		if err := w.in.Err(); err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		return "", ErrAborted
	}
	return strings.TrimSpace(w.in.Text()), nil
}

func (w *Wizard) println(a ...any) {
	fmt.Fprintln(w.out, a...)
}

func (w *Wizard) deadlineText() string {
	return formatDeadline(w.opts.Deadline)
}

func formatDeadline(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	}
	return d.String()
}

package wizard

import (
	"fmt"
	"strings"

	"github.com/talentscout/talentscout/internal/candidate"
)

const rule = "----------------------------------------"

func (w *Wizard) showQuestions(rec candidate.Record) {
	w.println()
	w.println("Technical Assessment Questions")
	w.println("Based on your tech stack: " + rec.TechStack)
	w.println(rule)
	w.println(rec.Questions)
	w.println(rule)
	w.println()
	w.println("Instructions:")
	w.println("  1. Solve these questions in your local compiler/IDE")
	w.println("  2. Create separate files for each question (e.g., question1.py, question2.java)")
	w.println("  3. Include comments explaining your approach")
	w.println("  4. Test your solutions with sample inputs")
	w.println("  5. Submit all code files to: " + w.opts.AssessmentEmail)
	w.println()
	w.println("Email subject: " + subjectLine(rec))
	w.println("Submission deadline: within " + w.deadlineText())
	w.println()
	w.println("After evaluating your code, we will schedule your interview within 5-7 business days.")
	w.println()
}

func (w *Wizard) showSummary(rec candidate.Record) {
	w.println()
	w.println("Assessment Summary")
	w.println(rule)
	fmt.Fprintf(w.out, "  Name:       %s\n", rec.Name)
	fmt.Fprintf(w.out, "  Email:      %s\n", rec.Email)
	fmt.Fprintf(w.out, "  Phone:      %s\n", rec.Phone)
	fmt.Fprintf(w.out, "  Experience: %d years\n", rec.Experience)
	fmt.Fprintf(w.out, "  Position:   %s\n", rec.Position)
	fmt.Fprintf(w.out, "  Location:   %s\n", rec.Location)
	fmt.Fprintf(w.out, "  Tech stack: %s\n", rec.TechStack)
	w.println()
	w.println("Questions assigned:")
	for _, line := range strings.Split(rec.Questions, "\n") {
		w.println("  " + line)
	}
	w.println()
	w.println("Next steps:")
	w.println("  1. Complete the coding assessment in your local environment")
	w.println("  2. Submit code files to: " + w.opts.AssessmentEmail)
	w.println("  3. Wait for evaluation (5-7 business days)")
	w.println("  4. Interview scheduling if shortlisted")
}

func (w *Wizard) showClosing() {
	w.println()
	w.println(rule)
	w.println("Thank you for completing the initial screening with TalentScout!")
	w.println()
	w.println("Important reminders:")
	w.println("  - Submit your code files to: " + w.opts.AssessmentEmail)
	w.println("  - Use email subject: Technical Assessment - [Your Name] - [Position]")
	w.println("  - Deadline: " + w.deadlineText() + " from now")
	w.println()
	w.println("Questions? Contact us at " + contactEmail)
	w.println("Good luck with your assessment!")
}

func subjectLine(rec candidate.Record) string {
	return fmt.Sprintf("Technical Assessment - %s - %s", rec.Name, rec.Position)
}

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/ThanakornSe/AnswerNote/internal/domain"
	"github.com/ThanakornSe/AnswerNote/internal/engine"
)

// command is one CLI verb taking exactly nargs positional arguments.
type command struct {
	nargs int
	run   func(ctx context.Context, app *application, args []string, out io.Writer) error
}

var commands = map[string]command{
	"create": {2, runCreate},
	"list":   {0, runList},
	"show":   {1, runShow},
	"select": {3, runSelect},
	"grade":  {3, runGrade},
	"resize": {2, runResize},
	"clear":  {1, runClear},
	"score":  {1, runScore},
	"export": {1, runExport},
	"delete": {1, runDelete},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid sheet id %q", errUsage, s)
	}
	return id, nil
}

func parseInt(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errUsage, what, s)
	}
	return n, nil
}

// load makes the sheet named by idArg active and fails if it does not exist.
func load(ctx context.Context, app *application, idArg string) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	if err := app.sheet.Load(ctx, id); err != nil {
		return fmt.Errorf("failed to load answer sheet %d: %w", id, err)
	}
	if app.sheet.State().NotFound {
		return fmt.Errorf("answer sheet %d not found", id)
	}
	return nil
}

// edit loads the sheet, applies fn and waits for the write to land.
func edit(ctx context.Context, app *application, idArg string, fn func(*engine.SheetEngine) error) error {
	if err := load(ctx, app, idArg); err != nil {
		return err
	}
	if err := fn(app.sheet); err != nil {
		return err
	}
	if err := app.sheet.Flush(ctx); err != nil {
		return fmt.Errorf("failed to save answer sheet: %w", err)
	}
	return nil
}

func runCreate(ctx context.Context, app *application, args []string, out io.Writer) error {
	n, err := parseInt("question count", args[1])
	if err != nil {
		return err
	}
	id, err := app.list.Create(ctx, args[0], n)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created answer sheet %d\n", id)
	return nil
}

func runList(ctx context.Context, app *application, args []string, out io.Writer) error {
	summaries := app.list.Summaries()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "no answer sheets")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tANSWERED\tUPDATED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%d\t%s\t%d/%d\t%s\n",
			s.ID, s.Name, s.AnsweredCount, s.NumberOfQuestions,
			s.UpdatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func runShow(ctx context.Context, app *application, args []string, out io.Writer) error {
	if err := load(ctx, app, args[0]); err != nil {
		return err
	}
	st := app.sheet.State()

	fmt.Fprintf(out, "%s (%d questions, %d answered)\n",
		st.Sheet.Name, st.Sheet.NumberOfQuestions, st.AnsweredCount)
	for _, q := range st.Sheet.Questions {
		selected := "-"
		if q.IsAnswered() {
			selected = q.SelectedAnswer.String()
		}
		line := fmt.Sprintf("%3d. %s", q.QuestionNumber, selected)
		if correct, graded := q.IsCorrect(); graded {
			mark := "wrong"
			if correct {
				mark = "correct"
			}
			line += fmt.Sprintf("  [%s, answer %s]", mark, q.CorrectAnswer)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runSelect(ctx context.Context, app *application, args []string, out io.Writer) error {
	q, err := parseInt("question number", args[1])
	if err != nil {
		return err
	}
	answer, err := domain.ParseAnswer(args[2])
	if err != nil {
		return err
	}
	if err := edit(ctx, app, args[0], func(e *engine.SheetEngine) error {
		return e.SelectAnswer(q, answer)
	}); err != nil {
		return err
	}
	st := app.sheet.State()
	fmt.Fprintf(out, "answered %d/%d\n", st.AnsweredCount, st.Sheet.NumberOfQuestions)
	return nil
}

func runGrade(ctx context.Context, app *application, args []string, out io.Writer) error {
	q, err := parseInt("question number", args[1])
	if err != nil {
		return err
	}
	answer, err := domain.ParseAnswer(args[2])
	if err != nil {
		return err
	}
	if err := edit(ctx, app, args[0], func(e *engine.SheetEngine) error {
		return e.SetCorrectAnswer(q, answer)
	}); err != nil {
		return err
	}
	return printScore(out, app.sheet.State())
}

func runResize(ctx context.Context, app *application, args []string, out io.Writer) error {
	n, err := parseInt("question count", args[1])
	if err != nil {
		return err
	}
	if err := edit(ctx, app, args[0], func(e *engine.SheetEngine) error {
		return e.SetNumberOfQuestions(n)
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "answer sheet now has %d questions\n", n)
	return nil
}

func runClear(ctx context.Context, app *application, args []string, out io.Writer) error {
	if err := edit(ctx, app, args[0], func(e *engine.SheetEngine) error {
		e.ClearAll()
		return nil
	}); err != nil {
		return err
	}
	fmt.Fprintln(out, "selections cleared")
	return nil
}

func runScore(ctx context.Context, app *application, args []string, out io.Writer) error {
	if err := load(ctx, app, args[0]); err != nil {
		return err
	}
	return printScore(out, app.sheet.State())
}

func printScore(out io.Writer, st engine.State) error {
	if st.Score.Graded == 0 {
		_, err := fmt.Fprintln(out, "no graded questions")
		return err
	}
	_, err := fmt.Fprintf(out, "score %d/%d (%.1f%%)\n", st.Score.Correct, st.Score.Graded, st.Percentage)
	return err
}

func runExport(ctx context.Context, app *application, args []string, out io.Writer) error {
	if err := load(ctx, app, args[0]); err != nil {
		return err
	}
	_, err := io.WriteString(out, app.sheet.ExportSummary())
	return err
}

func runDelete(ctx context.Context, app *application, args []string, out io.Writer) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := app.list.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted answer sheet %d\n", id)
	return nil
}

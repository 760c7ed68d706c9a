// Command enrollment-report summarizes Canvas course enrollments.
//
// Course ids are taken from the command line or, when none are given, read
// from stdin. The summary table is printed to stdout; -o additionally writes
// a two-sheet Excel workbook.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"

	"github.com/campusops/canvas-enrollments/pkg/canvas"
	"github.com/campusops/canvas-enrollments/pkg/client"
	"github.com/campusops/canvas-enrollments/pkg/config"
	"github.com/campusops/canvas-enrollments/pkg/export"
	"github.com/campusops/canvas-enrollments/pkg/logging"
	"github.com/campusops/canvas-enrollments/pkg/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("enrollment-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	details := fs.Bool("details", false, "print a per-course enrollment breakdown")
	workers := fs.Int("workers", 0, "concurrent course fetches (0 = default)")
	output := fs.String("o", "", "write an Excel workbook to this path")
	pretty := fs.Bool("pretty", false, "human-readable console logging")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LevelFromDebug(cfg.Debug),
		Pretty: *pretty || cfg.LogPretty,
		Output: stderr,
	})

	courseIDs := report.ParseCourseIDs(strings.Join(fs.Args(), " "))
	if fs.NArg() == 0 {
		courseIDs = report.ParseCourseIDs(readAll(stdin))
	}
	if len(courseIDs) == 0 {
		fmt.Fprintln(stderr, "warning: no valid course ids given")
		return 1
	}

	clientCfg := client.DefaultConfig(cfg.BaseURL, cfg.APIToken)
	if cfg.RedisURL != "" {
		clientCfg.Redis = redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	}
	canvasClient, err := client.New(clientCfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	svc := canvas.NewService(canvasClient)

	ctx := context.Background()
	logger.Info().Int("courses", len(courseIDs)).Msg("starting report")

	summaryWorkers := *workers
	if summaryWorkers <= 0 {
		summaryWorkers = report.DefaultSummaryWorkers
	}
	summaries, err := report.ProcessCourses(ctx, svc, courseIDs, summaryWorkers)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	printSummaries(stdout, summaries)

	if *details {
		detailWorkers := *workers
		if detailWorkers <= 0 {
			detailWorkers = report.DefaultDetailWorkers
		}
		courseDetails, err := report.ProcessCourseDetails(ctx, svc, courseIDs, detailWorkers)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		printDetails(stdout, courseDetails)
	}

	if *output != "" {
		rows, err := report.BuildEnrollmentTable(ctx, svc, courseIDs)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		if err := export.SaveReport(*output, summaries, rows); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		logger.Info().Str("path", *output).Int("rows", len(rows)).Msg("workbook written")
	}

	return 0
}

func readAll(r io.Reader) string {
	var sb strings.Builder
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString(" ")
	}
	return sb.String()
}

func printSummaries(w io.Writer, summaries []report.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tCurso\tDiplomado\tActivos\tCompletados\tOtros Estados\tOtros Roles")

	var activos, completados, otros int
	for _, s := range summaries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%s\n",
			s.ID, s.Curso, s.Diplomado, s.Activos, s.Completados, s.OtrosEstados, s.OtrosRoles)
		activos += s.Activos
		completados += s.Completados
		otros += s.OtrosEstados
	}
	fmt.Fprintf(tw, "\tTotal\t\t%d\t%d\t%d\t\n", activos, completados, otros)
	tw.Flush()
}

func printDetails(w io.Writer, courseDetails []report.CourseDetail) {
	for _, d := range courseDetails {
		fmt.Fprintf(w, "\n%s (%d) — %s\n", d.Curso, d.ID, d.Diplomado)
		printBucket(w, "Activos", d.Activos)
		printBucket(w, "Completados", d.Completados)
		printBucket(w, "Otros estados", d.OtrosEstados)
		printBucket(w, "Otros roles", d.OtrosRoles)
	}
}

func printBucket(w io.Writer, label string, students []report.StudentInfo) {
	if len(students) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s (%d):\n", label, len(students))
	for _, s := range students {
		fmt.Fprintf(w, "    %s <%s> [%s]\n", s.Nombre, s.Email, s.UserID)
	}
}

/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/eslsoft/gradenet/internal/entity"
	"github.com/eslsoft/gradenet/internal/gpa"
	"github.com/eslsoft/gradenet/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report [semester-id]",
	Short: "Print the dashboard, or the report of one semester",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		container, cleanup, err := openContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if len(args) == 1 {
			report, err := container.Reports.SemesterReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printSemesterReport(cmd.OutOrStdout(), report)
			return nil
		}

		summary, err := container.Reports.Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), summary)
		}
		printDashboard(cmd.OutOrStdout(), summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Bool("json", false, "print JSON instead of tables")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printDashboard(w io.Writer, s *gpa.Summary) {
	fmt.Fprintf(w, "CGPA %.2f / %.1f  (target %.2f, %.0f%%)\n", s.CGPA, s.ScaleMax, s.TargetCGPA, s.TargetProgressPct)
	fmt.Fprintf(w, "%d semesters, %d courses, %d units counted (%d attempted), retake policy %s\n",
		s.SemesterCount, s.CourseCount, s.Totals.Units, s.AttemptedUnits, s.RetakePolicy)
	if s.LatestSemesterID != "" {
		fmt.Fprintf(w, "latest semester GPA %.2f over %d units\n", s.LatestGPA, s.LatestUnits)
	}

	if len(s.Trend) > 0 {
		fmt.Fprintln(w)
		table := newTable(w, "Semester", "Units", "GPA", "CGPA")
		for _, p := range s.Trend {
			table.Append([]string{p.Label, strconv.Itoa(p.Units), formatGPA(p.GPA), formatGPA(p.CGPA)})
		}
		table.Render()
	}

	printDistribution(w, s.Distribution)
	printImpactful(w, s.Impactful)

	if len(s.Retakes) > 0 {
		codes := make([]string, 0, len(s.Retakes))
		for code := range s.Retakes {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		fmt.Fprintf(w, "\nretaken: %s\n", strings.Join(codes, ", "))
	}
}

func printSemesterReport(w io.Writer, r *usecase.SemesterReport) {
	fmt.Fprintf(w, "%s (%s, term %d): GPA %.2f over %d units\n\n",
		r.Semester.Label(), r.Semester.Session, r.Semester.Term, r.GPA, r.Totals.Units)
	printCourses(w, r.Courses)
	printDistribution(w, r.Distribution)
	printImpactful(w, r.Impactful)
	if len(r.RetakenCodes) > 0 {
		fmt.Fprintf(w, "\nalso taken in another semester: %s\n", strings.Join(r.RetakenCodes, ", "))
	}
}

func printCourses(w io.Writer, courses []entity.Course) {
	table := newTable(w, "Code", "Title", "Units", "Score", "Grade", "Point")
	for _, c := range courses {
		table.Append([]string{
			c.Code, c.Title, strconv.Itoa(c.Units),
			strconv.FormatFloat(c.Score, 'f', -1, 64), c.GradeLetter, formatGPA(c.GradePoint),
		})
	}
	table.Render()
}

func printDistribution(w io.Writer, dist []gpa.GradeCount) {
	parts := make([]string, 0, len(dist))
	for _, g := range dist {
		parts = append(parts, fmt.Sprintf("%s:%d", g.Letter, g.Count))
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "\ngrades %s\n", strings.Join(parts, "  "))
	}
}

func printImpactful(w io.Writer, courses []entity.Course) {
	if len(courses) == 0 {
		return
	}
	fmt.Fprintf(w, "\ncourses pulling the GPA down (%d+ units, point <= %.0f):\n", gpa.ImpactMinUnits, gpa.ImpactMaxPoint)
	printCourses(w, courses)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	return table
}

func formatGPA(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

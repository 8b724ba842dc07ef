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
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eslsoft/gradenet/internal/usecase"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Project the CGPA over the remaining semesters",
	Long: `Computes the GPA needed in each remaining semester to reach the target CGPA from the
current standing, and simulates the semesters one by one. Unset flags fall back to the saved
settings and the planner defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		asJSON, _ := flags.GetBool("json")

		var req usecase.PlanRequest
		if flags.Changed("target") {
			v, _ := flags.GetFloat64("target")
			req.TargetCGPA = &v
		}
		if flags.Changed("remaining") {
			v, _ := flags.GetInt("remaining")
			req.RemainingSemesters = &v
		}
		if flags.Changed("units") {
			v, _ := flags.GetInt("units")
			req.UnitsPerSemester = &v
		}
		if flags.Changed("what-if") {
			v, _ := flags.GetFloat64("what-if")
			req.WhatIfGPA = &v
		}
		req.Clamp, _ = flags.GetString("clamp")

		container, cleanup, err := openContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		plan, err := container.Planner.Plan(cmd.Context(), req)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), plan)
		}
		printPlan(cmd.OutOrStdout(), plan)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().Float64("target", 0, "target CGPA (default: saved target)")
	planCmd.Flags().Int("remaining", 0, "remaining semesters")
	planCmd.Flags().Int("units", 0, "units per remaining semester")
	planCmd.Flags().Float64("what-if", 0, "GPA to assume for the next semester")
	planCmd.Flags().String("clamp", "", "display or carry: whether clamped GPAs feed later semesters")
	planCmd.Flags().Bool("json", false, "print JSON instead of a table")
}

func printPlan(w io.Writer, plan *usecase.Plan) {
	in, p := plan.Input, plan.Projection
	fmt.Fprintf(w, "current CGPA %.2f over %d units, target %.2f in %d semesters of %d units\n",
		in.CurrentCGPA, in.UnitsCompleted, in.TargetCGPA, in.RemainingSemesters, in.UnitsPerSemester)
	if p.Achievable {
		fmt.Fprintf(w, "required GPA per semester: %.2f\n", p.RequiredGPA)
	} else {
		fmt.Fprintf(w, "required GPA per semester: %.2f, above the %.1f maximum\n", p.RequiredGPA, in.ScaleMax)
	}

	if len(p.Points) > 0 {
		fmt.Fprintln(w)
		table := newTable(w, "Semester", "Units", "Semester GPA", "Projected CGPA", "Required", "Target")
		for _, pt := range p.Points {
			table.Append([]string{
				pt.Label, strconv.Itoa(pt.ProjectedUnits), formatGPA(pt.SemesterGPA),
				formatGPA(pt.ProjectedCGPA), formatGPA(pt.RequiredGPA), formatGPA(pt.TargetGPA),
			})
		}
		table.Render()
	}

	verdict := "falls short of"
	if p.AchievesTarget {
		verdict = "reaches"
	}
	fmt.Fprintf(w, "\nfinal CGPA %.2f over %d units %s the target\n", p.FinalCGPA, p.FinalUnits, verdict)
}

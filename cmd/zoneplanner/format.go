package main

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/CORaleigh/NextCenturyCities/pkg/analytics"
	"github.com/CORaleigh/NextCenturyCities/pkg/scenario"
	"github.com/CORaleigh/NextCenturyCities/pkg/units"
	"github.com/CORaleigh/NextCenturyCities/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(e)
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResult(w)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Level, res.Message)
	if res.Path != "" {
		fmt.Printf("    -> %s = %v\n", res.Path, res.ActualValue)
	}
	if res.Expected != "" {
		fmt.Printf("    expected: %s\n", res.Expected)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("    * %s\n", s)
	}
}

func printSummary(name string, s scenario.Summary) {
	title := "Scenario Report"
	if name != "" {
		title += ": " + name
	}
	fmt.Println(title)
	fmt.Println("===============")
	fmt.Println()

	fmt.Printf("%-14s %16s %16s %16s\n", "", "Current", "New", "Difference")
	fmt.Printf("%-14s %16s %16s %16s\n", "--------------", "----------------", "----------------", "----------------")

	rows := []struct {
		label string
		a, b  int64
	}{
		{"Buildings", int64(s.Current.Buildings), int64(s.New.Buildings)},
		{"Area (m2)", s.Current.Area, s.New.Area},
		{"Volume (m3)", s.Current.TotalVolume, s.New.TotalVolume},
		{"  Retail", s.Current.RetailVolume, s.New.RetailVolume},
		{"  Office", s.Current.OfficeVolume, s.New.OfficeVolume},
		{"  Residential", s.Current.ResidentialVolume, s.New.ResidentialVolume},
	}
	for _, row := range rows {
		fmt.Printf("%-14s %16s %16s %16s\n", row.label,
			analytics.FormatNumber(row.a), analytics.FormatNumber(row.b), analytics.FormatDelta(row.a, row.b))
	}

	fmt.Println()
	fmt.Println("Use mix (% of volume)")
	fmt.Println("---------------------")
	fmt.Printf("  Retail:       %5.1f%% -> %5.1f%%\n", s.BaselineShares.Retail, s.ScenarioShares.Retail)
	fmt.Printf("  Office:       %5.1f%% -> %5.1f%%\n", s.BaselineShares.Office, s.ScenarioShares.Office)
	fmt.Printf("  Residential:  %5.1f%% -> %5.1f%%\n", s.BaselineShares.Residential, s.ScenarioShares.Residential)
	fmt.Println()
	fmt.Printf("Changed buildings: %d\n", s.Changed)
}

func printBuildings(entries []scenario.Entry) {
	fmt.Printf("%-12s %-10s %8s %8s %6s %7s %7s %7s %14s\n",
		"ID", "Zoning", "W (ft)", "D (ft)", "Angle", "Retail", "Office", "Resid.", "Volume (m3)")
	for _, e := range entries {
		a := e.Attributes
		zoning := "-"
		if a.Zoning != nil {
			zoning = *a.Zoning
		}
		volume := "-"
		if e.Report != nil {
			volume = humanize.Comma(e.Report.TotalVolume)
		}
		fmt.Printf("%-12s %-10s %8.0f %8.0f %6.0f %7d %7d %7d %14s\n",
			a.ID, zoning, units.ToFeet(a.Width), units.ToFeet(a.Depth), a.Angle,
			a.Retail.Count, a.Office.Count, a.Residential.Count, volume)
	}
}

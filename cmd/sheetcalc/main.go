package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javajack/sheetcalc"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sheetcalc:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sheetcalc",
		Short:         "Spreadsheet calculation engine",
		Long:          "sheetcalc evaluates spreadsheet formulas over a sparse grid,\nkeeping dependent cells consistent under edits and row/column changes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRunCmd(), newEvalCmd(), newPrintCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		showTexts bool
		outPath   string
	)
	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Apply a YAML script to an empty sheet and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			script, err := sheetcalc.LoadScript(f)
			if err != nil {
				return err
			}
			sheet := sheetcalc.NewSheet()
			if err := script.Apply(sheet); err != nil {
				return err
			}

			if outPath != "" {
				if err := writeWorkbook(sheet, outPath); err != nil {
					return err
				}
			}
			if showTexts {
				return sheet.PrintTexts(cmd.OutOrStdout())
			}
			return sheet.PrintValues(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&showTexts, "texts", false, "print raw cell texts instead of values")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "also write the result as an xlsx workbook")
	return cmd
}

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <formula>",
		Short: "Evaluate a single formula against an empty sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formula, err := sheetcalc.ParseFormula(strings.TrimPrefix(args[0], "="))
			if err != nil {
				return err
			}
			sheet := sheetcalc.NewSheet()
			fmt.Fprintf(cmd.OutOrStdout(), "=%s\n%s\n", formula.Expression(), formula.Evaluate(sheet))
			return nil
		},
	}
}

func newPrintCmd() *cobra.Command {
	var showTexts bool
	cmd := &cobra.Command{
		Use:   "print <workbook.xlsx>",
		Short: "Load an xlsx workbook and print its computed values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			sheet, err := sheetcalc.LoadXLSX(f)
			if err != nil {
				return err
			}
			if showTexts {
				return sheet.PrintTexts(cmd.OutOrStdout())
			}
			return sheet.PrintValues(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&showTexts, "texts", false, "print raw cell texts instead of values")
	return cmd
}

func writeWorkbook(sheet *sheetcalc.Sheet, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sheetcalc.SaveXLSX(sheet, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

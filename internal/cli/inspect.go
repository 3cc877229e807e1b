package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/law-makers/nutricrawl/internal/allergen"
	"github.com/law-makers/nutricrawl/internal/export"
	"github.com/law-makers/nutricrawl/internal/ui"
	"github.com/law-makers/nutricrawl/pkg/models"
	"github.com/spf13/cobra"
)

var inspectSamples int

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file.csv>",
	Short: "Summarize a CSV export",
	Long: `Reads a CSV export back and prints the item count, a few sample items
and how often each allergen code appears.`,
	Example: `  nutricrawl inspect nutrislice_menu.csv
  nutricrawl inspect starbucks_menu.csv --samples 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := export.ReadCSVFile(args[0])
		if err != nil {
			return err
		}
		printInspect(cmd.OutOrStdout(), args[0], summarize(records, inspectSamples))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVarP(&inspectSamples, "samples", "n", 5, "Number of sample items to print")
}

type allergenCount struct {
	Code  string
	Count int
}

type inspectSummary struct {
	Items       int
	Vegetarian  int
	NoCalories  int
	AvgCalories float64
	Samples     []models.NutritionRecord
	Allergens   []allergenCount
}

// summarize computes the inspect report. Allergens are ordered by count,
// then code.
func summarize(records []models.NutritionRecord, samples int) inspectSummary {
	s := inspectSummary{Items: len(records)}
	counts := map[string]int{}
	var total float64
	var withCalories int
	for _, r := range records {
		if r.Vegetarian == models.VegetarianYes {
			s.Vegetarian++
		}
		if r.Calories.Valid() {
			total += r.Calories.Value()
			withCalories++
		} else {
			s.NoCalories++
		}
		for _, c := range r.Allergens {
			counts[c]++
		}
	}
	if withCalories > 0 {
		s.AvgCalories = total / float64(withCalories)
	}

	if samples > len(records) {
		samples = len(records)
	}
	if samples > 0 {
		s.Samples = records[:samples]
	}

	for code, n := range counts {
		s.Allergens = append(s.Allergens, allergenCount{Code: code, Count: n})
	}
	sort.Slice(s.Allergens, func(i, j int) bool {
		if s.Allergens[i].Count != s.Allergens[j].Count {
			return s.Allergens[i].Count > s.Allergens[j].Count
		}
		return s.Allergens[i].Code < s.Allergens[j].Code
	})
	return s
}

func printInspect(w io.Writer, path string, s inspectSummary) {
	fmt.Fprintf(w, "\n%s\n", ui.Bold(path))
	fmt.Fprintf(w, "  items       %d\n", s.Items)
	fmt.Fprintf(w, "  vegetarian  %d\n", s.Vegetarian)
	fmt.Fprintf(w, "  avg kcal    %.0f", s.AvgCalories)
	if s.NoCalories > 0 {
		fmt.Fprintf(w, " %s", ui.Dim(fmt.Sprintf("(%d without calories)", s.NoCalories)))
	}
	fmt.Fprintln(w)

	if len(s.Samples) > 0 {
		fmt.Fprintf(w, "\n%sSamples%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
		for _, r := range s.Samples {
			fmt.Fprintf(w, "  %s%s%s  %s kcal, %sg protein, %sg carbs, %sg fat %s\n",
				ui.ColorCyan, r.Name, ui.ColorReset,
				orDash(r.Calories), orDash(r.Protein), orDash(r.Carbs), orDash(r.Fats),
				ui.Dim(allergen.Join(r.Allergens)))
		}
	}

	if len(s.Allergens) > 0 {
		fmt.Fprintf(w, "\n%sAllergens%s\n", ui.ColorBold+ui.ColorWhite, ui.ColorReset)
		for _, a := range s.Allergens {
			fmt.Fprintf(w, "  %-3s %-10s %d\n", a.Code, allergen.Default.Name(a.Code), a.Count)
		}
	}
	fmt.Fprintln(w)
}

func orDash(a models.Amount) string {
	if !a.Valid() {
		return "-"
	}
	return a.String()
}

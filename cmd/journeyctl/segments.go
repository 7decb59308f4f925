package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ludobegins/por-ai/internal/display"
	"github.com/ludobegins/por-ai/internal/journey"
	"github.com/ludobegins/por-ai/internal/locale"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true).Padding(1, 0)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "List the route segments between consecutive stops",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		j, err := loadJourney(cmd.Context(), cmd, cfg)
		if err != nil {
			return err
		}

		requested, _ := cmd.Flags().GetString("locale")
		printSegments(cmd.OutOrStdout(), j, locale.New(requested))
		return nil
	},
}

func printSegments(w io.Writer, j *journey.Journey, lc *locale.Context) {
	segments := journey.DeriveSegments(j.Stops)

	fmt.Fprintln(w, titleStyle.Render(lc.T("title")))
	if len(segments) == 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d stop(s), no segments to draw.", len(j.Stops))))
		return
	}

	rows := make([][]string, 0, len(segments))
	for i, s := range segments {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			stopName(j, i, lc),
			stopName(j, i+1, lc),
			transportCell(s.Transport),
			lc.FormatDistance(roundKm(s.LengthKm())),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "From", "To", "Transport", "Distance").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t)

	summary := journey.Summarize(segments)
	fmt.Fprintf(w, "\n%d segments, %s in total\n", summary.Segments, lc.FormatDistance(roundKm(summary.TotalKm)))
	for _, mode := range summary.ByMode {
		fmt.Fprintf(w, "  %s  %d × %s\n", transportCell(mode.Transport), mode.Segments, lc.FormatDistance(roundKm(mode.Km)))
	}
}

// transportCell renders the tag next to a swatch of its line colour, with
// a dash marker for dashed routes
func transportCell(t journey.Transport) string {
	color, dash := display.SegmentStyle(t)
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("   ")

	name := string(t)
	if name == "" {
		name = mutedStyle.Render("unknown")
	}
	if len(dash) > 0 {
		name += mutedStyle.Render(" (dashed)")
	}
	return swatch + " " + name
}

func stopName(j *journey.Journey, i int, lc *locale.Context) string {
	if name := lc.Field(j.Stops[i].Properties, "place_name"); name != "" {
		return name
	}
	p := j.Stops[i].Coordinates
	return fmt.Sprintf("%.3f, %.3f", p.Lat(), p.Lon())
}

func roundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

func init() {
	rootCmd.AddCommand(segmentsCmd)
	segmentsCmd.Flags().StringP("locale", "l", locale.Base, "Language for stop names and distances (pt-br, en)")
}

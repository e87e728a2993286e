package tui

import (
	"fmt"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/pynezz/gungnir/internal/orchestrator"
)

// StatsFunc supplies fresh dashboard numbers on every refresh tick
type StatsFunc func() (*orchestrator.DashboardStats, error)

func AsciiArt() string {
	return `
 ██████╗ ██╗   ██╗███╗   ██╗ ██████╗ ███╗   ██╗██╗██████╗
██╔════╝ ██║   ██║████╗  ██║██╔════╝ ████╗  ██║██║██╔══██╗
██║  ███╗██║   ██║██╔██╗ ██║██║  ███╗██╔██╗ ██║██║██████╔╝
██║   ██║██║   ██║██║╚██╗██║██║   ██║██║╚██╗██║██║██╔══██╗
╚██████╔╝╚██████╔╝██║ ╚████║╚██████╔╝██║ ╚████║██║██║  ██║
 ╚═════╝  ╚═════╝ ╚═╝  ╚═══╝ ╚═════╝ ╚═╝  ╚═══╝╚═╝╚═╝  ╚═╝`
}

// Display renders the scan dashboard until q or Ctrl-C is pressed
func Display(stats StatsFunc) error {
	if err := ui.Init(); err != nil {
		return err
	}
	defer ui.Close()

	header := widgets.NewParagraph()
	header.Text = AsciiArt()
	header.Border = false
	header.SetRect(0, 0, 64, 8)

	totals := widgets.NewParagraph()
	totals.Title = "Scans"
	totals.SetRect(0, 8, 32, 14)

	severities := widgets.NewBarChart()
	severities.Title = "Vulnerabilities by severity"
	severities.Labels = []string{"crit", "high", "med", "low"}
	severities.SetRect(32, 8, 64, 14)
	severities.BarWidth = 6

	refresh := func() {
		s, err := stats()
		if err != nil {
			totals.Text = "error: " + err.Error()
		} else {
			totals.Text = fmt.Sprintf(
				"Total scans: %d\nCompleted:   %d\nFindings:    %d",
				s.TotalScans, s.CompletedScans, s.TotalVulnerabilities)
			severities.Data = []float64{
				float64(s.SeverityDistribution.Critical),
				float64(s.SeverityDistribution.High),
				float64(s.SeverityDistribution.Medium),
				float64(s.SeverityDistribution.Low),
			}
		}
		ui.Render(header, totals, severities)
	}

	refresh()

	events := ui.PollEvents()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			}
		case <-ticker.C:
			refresh()
		}
	}
}

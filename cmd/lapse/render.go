package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hpungsan/lapse/internal/frame"
	"github.com/hpungsan/lapse/internal/report"
	"github.com/hpungsan/lapse/internal/sync"
	"github.com/hpungsan/lapse/internal/timer"
)

var (
	projectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4A90E2"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	durationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F")).
			Bold(true)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888"))

	dayStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	conflictStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

func styleProject(name string) string {
	return projectStyle.Render(name)
}

// styleTags renders tags as " [a, b]", or nothing when there are none.
func styleTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return tagStyle.Render(" [" + strings.Join(tags, ", ") + "]")
}

func styleTime(t time.Time) string {
	return timeStyle.Render(t.Format("2006-01-02 15:04"))
}

func styleID(id string) string {
	return idStyle.Render(id)
}

// humanDuration formats d as "3h 42m 10s", omitting leading zero units.
func humanDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func printStarted(sess timer.Session) {
	fmt.Printf("Starting project %s%s at %s\n",
		styleProject(sess.Project), styleTags(sess.Tags), styleTime(sess.Start))
}

func printStopped(f frame.Frame) {
	fmt.Printf("Stopping project %s%s, started %s and stopped %s (id: %s)\n",
		styleProject(f.Project), styleTags(f.Tags),
		styleTime(f.Start), styleTime(f.Stop), styleID(shortID(f.ID)))
}

func printReport(rep *report.Report) {
	fmt.Printf("%s -> %s\n\n",
		styleTime(rep.Timespan.From), styleTime(rep.Timespan.To))
	for _, project := range rep.Projects {
		fmt.Printf("%s - %s\n",
			styleProject(project.Name),
			durationStyle.Render(humanDuration(secondsToDuration(project.Time))))
		for _, tag := range project.Tags {
			fmt.Printf("\t[%s %s]\n",
				tagStyle.Render(tag.Name),
				humanDuration(secondsToDuration(tag.Time)))
		}
	}
	fmt.Printf("\nTotal: %s\n",
		durationStyle.Render(humanDuration(secondsToDuration(rep.Time))))
}

func printAggregate(agg *report.Aggregate) {
	for i, day := range agg.Days {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s - %s\n",
			dayStyle.Render(day.Timespan.From.Format("Monday 02 January 2006")),
			durationStyle.Render(humanDuration(secondsToDuration(day.Time))))
		for _, project := range day.Projects {
			fmt.Printf("\t%s - %s\n",
				styleProject(project.Name),
				humanDuration(secondsToDuration(project.Time)))
			for _, tag := range project.Tags {
				fmt.Printf("\t\t[%s %s]\n",
					tagStyle.Render(tag.Name),
					humanDuration(secondsToDuration(tag.Time)))
			}
		}
	}
}

func printLog(log *report.Log) {
	for i, day := range log.Days {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s (%s)\n",
			dayStyle.Render(day.Day.Format("Monday 02 January 2006")),
			durationStyle.Render(humanDuration(secondsToDuration(day.Time))))
		for _, f := range day.Frames {
			fmt.Printf("\t%s  %s to %s  %8s  %s%s\n",
				styleID(shortID(f.ID)),
				timeStyle.Render(f.Start.Format("15:04")),
				timeStyle.Render(f.Stop.Format("15:04")),
				humanDuration(f.Duration()),
				styleProject(f.Project),
				styleTags(f.Tags))
		}
	}
}

func printConflict(c sync.Conflict) {
	fmt.Printf("%s frame %s\n", conflictStyle.Render("conflict:"), styleID(shortID(c.Local.ID)))
	fmt.Printf("\tlocal:  %s%s %s to %s\n",
		styleProject(c.Local.Project), styleTags(c.Local.Tags),
		styleTime(c.Local.Start), styleTime(c.Local.Stop))
	fmt.Printf("\tfile:   %s%s %s to %s\n",
		styleProject(c.Remote.Project), styleTags(c.Remote.Tags),
		styleTime(c.Remote.Start), styleTime(c.Remote.Stop))
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Package tui renders command summaries for the terminal. When output is
// not interactive the same content is produced without styling.
package tui

import (
	"fmt"
	"strings"
)

// Row is one labelled value of a summary.
type Row struct {
	Label string
	Value string
}

// Summary renders a titled table of rows, boxed when styled.
func Summary(title string, rows []Row, styled bool) string {
	width := 0
	for _, r := range rows {
		if len(r.Label) > width {
			width = len(r.Label)
		}
	}

	var sb strings.Builder
	if styled {
		sb.WriteString(TitleStyle.Render(title))
	} else {
		sb.WriteString(title)
	}
	for _, r := range rows {
		sb.WriteString("\n")
		label := fmt.Sprintf("%-*s", width, r.Label)
		if styled {
			sb.WriteString(LabelStyle.Render(label) + "  " + ValueStyle.Render(r.Value))
		} else {
			sb.WriteString(label + "  " + r.Value)
		}
	}
	if styled {
		return BoxStyle.Render(sb.String())
	}
	return sb.String()
}

// Success renders a completion line.
func Success(msg string, styled bool) string {
	return status(SymbolCheck, msg, styled, SuccessStyle.Render)
}

// Failure renders an error line.
func Failure(msg string, styled bool) string {
	return status(SymbolCross, msg, styled, ErrorStyle.Render)
}

// Warning renders a warning line.
func Warning(msg string, styled bool) string {
	return status(SymbolWarning, msg, styled, WarningStyle.Render)
}

func status(symbol, msg string, styled bool, render func(...string) string) string {
	line := symbol + " " + msg
	if styled {
		return render(line)
	}
	return line
}

// Bullets renders items as an indented list.
func Bullets(items []string, styled bool) string {
	lines := make([]string, len(items))
	for i, it := range items {
		line := "  " + SymbolBullet + " " + it
		if styled {
			line = MutedStyle.Render(line)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// Package ui renders terminal output for the command line.
package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/model"
)

var (
	purple = lipgloss.Color("99")
	green  = lipgloss.Color("76")
	red    = lipgloss.Color("204")
	dim    = lipgloss.Color("243")
	faint  = lipgloss.Color("238")
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(green)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red)
	MutedStyle   = lipgloss.NewStyle().Foreground(dim)
)

func Muted(s string) string { return MutedStyle.Render(s) }

func SuccessMsg(format string, a ...any) string {
	return SuccessStyle.Render("✓") + " " + fmt.Sprintf(format, a...)
}

func ErrorMsg(format string, a ...any) string {
	return ErrorStyle.Render("✗") + " " + fmt.Sprintf(format, a...)
}

// Table renders a styled table with rounded borders.
func Table(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(purple).
		Bold(true).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	oddStyle := cellStyle.Foreground(dim)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return cellStyle
			default:
				return oddStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}

// RecipeTable lists every slot; empty slots show a dash.
func RecipeTable(slots []model.Slot) string {
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		if s.Recipe == nil {
			rows = append(rows, []string{strconv.Itoa(s.Index), "-", "", "", "", "", ""})
			continue
		}
		r := s.Recipe
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			r.Name,
			strconv.Itoa(r.Price),
			strconv.Itoa(r.Coffee),
			strconv.Itoa(r.Milk),
			strconv.Itoa(r.Sugar),
			strconv.Itoa(r.Chocolate),
		})
	}
	return Table([]string{"Slot", "Recipe", "Price", "Coffee", "Milk", "Sugar", "Chocolate"}, rows)
}

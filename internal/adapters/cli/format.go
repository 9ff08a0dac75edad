package cli

import (
	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	bold   = color.New(color.Bold)
)

// stateLabel renders a state (and fault sub-state) with its color.
func stateLabel(state, subState string) string {
	label := state
	if subState != "" {
		label += "/" + subState
	}
	switch state {
	case "functional":
		return green.Sprint(label)
	case "faulty":
		return red.Sprint(label)
	case "under_repair":
		return yellow.Sprint(label)
	default:
		return label
	}
}

// tierLabel renders a risk score with its tier color.
func tierLabel(score int, tier string) string {
	switch tier {
	case "high":
		return red.Sprintf("%d (%s)", score, tier)
	case "moderate":
		return yellow.Sprintf("%d (%s)", score, tier)
	default:
		return green.Sprintf("%d (%s)", score, tier)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

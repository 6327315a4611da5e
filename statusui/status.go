package statusui

import "fmt"

// Status is a displayable status item in the inline TUI.
type Status interface {
	Render() string
}

// TextStatus displays plain text.
type TextStatus struct {
	Text string
}

func (t TextStatus) Render() string {
	return t.Text
}

// ProgressStatus displays extraction progress as a bar over entry counts.
type ProgressStatus struct {
	Label string
	Done  int
	Total int
}

func (p ProgressStatus) Render() string {
	if p.Total <= 0 {
		return fmt.Sprintf("%s: %d", p.Label, p.Done)
	}
	percentage := float64(p.Done) / float64(p.Total) * 100
	barWidth := 30
	filled := int(float64(barWidth) * float64(p.Done) / float64(p.Total))
	if filled > barWidth {
		filled = barWidth
	}

	bar := ""
	for i := 0; i < barWidth; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}

	return fmt.Sprintf("%s: [%s] %.1f%% (%d/%d)",
		p.Label, bar, percentage, p.Done, p.Total)
}

// ErrorStatus displays an error message.
type ErrorStatus struct {
	Message string
	Err     error
}

func (e ErrorStatus) Render() string {
	if e.Err != nil {
		return fmt.Sprintf("❌ %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("❌ %s", e.Message)
}

// SuccessStatus displays a success message.
type SuccessStatus struct {
	Message string
}

func (s SuccessStatus) Render() string {
	return fmt.Sprintf("✓ %s", s.Message)
}

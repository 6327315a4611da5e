package statusui

import (
	"strings"
	"testing"
	"time"
)

func TestStatusUI(t *testing.T) {
	err := Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	Set("test1", TextStatus{Text: "Simple text status"})
	Set("test2", ProgressStatus{Label: "Extracting", Done: 12, Total: 80})
	Set("test3", ErrorStatus{Message: "Test error"})
	Set("test4", SuccessStatus{Message: "Test success"})

	time.Sleep(100 * time.Millisecond)

	Clear("test1")

	time.Sleep(100 * time.Millisecond)

	Stop()

	// no-ops after stop
	Set("test5", TextStatus{Text: "Should not appear"})
	Clear("test5")
	Stop()
}

func TestStatusUINotInitialized(t *testing.T) {
	Stop()

	Set("test", TextStatus{Text: "Should be no-op"})
	Clear("test")
	Stop()
}

func TestProgressStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   ProgressStatus
		contains string
	}{
		{
			name:     "with total",
			status:   ProgressStatus{Label: "Resolving", Done: 40, Total: 80},
			contains: "40/80",
		},
		{
			name:     "without total",
			status:   ProgressStatus{Label: "Resolving", Done: 3},
			contains: "Resolving",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.status.Render()
			if result == "" {
				t.Error("Expected non-empty render result")
			}
			if !strings.Contains(result, tt.contains) {
				t.Errorf("Expected render to contain %q, got %q", tt.contains, result)
			}
		})
	}
}

func TestTextStatus(t *testing.T) {
	status := TextStatus{Text: "Hello World"}
	if got := status.Render(); got != "Hello World" {
		t.Errorf("Expected %q, got %q", "Hello World", got)
	}
}

func TestErrorStatus(t *testing.T) {
	status := ErrorStatus{Message: "Failed", Err: nil}
	if !strings.Contains(status.Render(), "Failed") {
		t.Errorf("Expected render to contain 'Failed', got %q", status.Render())
	}
}

func TestSuccessStatus(t *testing.T) {
	status := SuccessStatus{Message: "Done"}
	if !strings.Contains(status.Render(), "Done") {
		t.Errorf("Expected render to contain 'Done', got %q", status.Render())
	}
}

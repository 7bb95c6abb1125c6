package assistant

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected actionCategory
	}{
		{
			name:     "plain chat",
			message:  "Hello!",
			expected: actionNone,
		},
		{
			name:     "read request",
			message:  "Read the config and summarize it",
			expected: actionReadOnly,
		},
		{
			name:     "write request",
			message:  "Write a poem to poem.txt",
			expected: actionWrite,
		},
		{
			name:     "execute request",
			message:  "Install the dependencies",
			expected: actionExecute,
		},
		{
			name:     "execute wins over write",
			message:  "Create a python script that prints hello world and run it",
			expected: actionExecute,
		},
		{
			name:     "browser request",
			message:  "Check what https://example.com says",
			expected: actionBrowser,
		},
		{
			name:     "mcp request",
			message:  "Use the fetch tool",
			expected: actionMCP,
		},
		{
			name:     "case insensitive",
			message:  "RUN THE TESTS",
			expected: actionExecute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.message); got != tt.expected {
				t.Errorf("classify(%q) = %v, want %v", tt.message, got, tt.expected)
			}
		})
	}
}

func TestSimulatedFailure(t *testing.T) {
	if !simulatedFailure("this will FAIL") {
		t.Error("expected failure keyword to be detected")
	}
	if simulatedFailure("all good here") {
		t.Error("unexpected failure detection")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a long message here", 6); got != "a long..." {
		t.Errorf("truncate = %q", got)
	}
}

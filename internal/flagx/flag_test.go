package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		names []string
		want  []string
	}{
		{
			name:  "separate value",
			args:  []string{"-d", "journal.db", "-w", "8"},
			names: []string{"-d"},
			want:  []string{"-d", "journal.db"},
		},
		{
			name:  "equals form",
			args:  []string{"-inference-url=http://hf", "-w", "8"},
			names: []string{"-inference-url"},
			want:  []string{"-inference-url=http://hf"},
		},
		{
			name:  "unknown flags and positionals ignored",
			args:  []string{"-x", "1", "--y=2", "positional"},
			names: []string{"-c"},
			want:  []string{},
		},
		{
			name:  "trailing flag without value",
			args:  []string{"-c"},
			names: []string{"-c"},
			want:  []string{"-c"},
		},
		{
			name:  "next token looking like a flag is not a value",
			args:  []string{"-c", "-w", "2"},
			names: []string{"-c"},
			want:  []string{"-c"},
		},
		{
			name:  "order and repetition preserved",
			args:  []string{"-c", "one.json", "-a", "http://api", "-c", "two.json"},
			names: []string{"-c", "-a"},
			want:  []string{"-c", "one.json", "-a", "http://api", "-c", "two.json"},
		},
		{
			name:  "empty",
			args:  nil,
			names: []string{"-c"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.args, tt.names...))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/tj.json", ConfigPath([]string{"-c", "/etc/tj.json"}))
	assert.Equal(t, "/etc/tj.json", ConfigPath([]string{"-config=/etc/tj.json", "-w", "4"}))
	assert.Equal(t, "b.json", ConfigPath([]string{"-c", "a.json", "-config", "b.json"}))
	assert.Empty(t, ConfigPath([]string{"-d", "journal.db"}))
}

package flagx

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	clientFlags := []string{"-a", "-n", "-d", "-i", "-u", "-t", "-s", "-p", "-r", "-o"}
	serverFlags := []string{"-a", "-d", "-s", "-t", "-u", "-p", "-b", "-g", "-e"}

	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "client flags kept, config and token tool flags dropped",
			args:         []string{"-c", "keygate.json", "-a", "127.0.0.1:50051", "-u", "alice", "-identity", "alice@example.com"},
			allowedFlags: clientFlags,
			want:         []string{"-a", "127.0.0.1:50051", "-u", "alice"},
		},
		{
			name:         "server flags kept from a shared command line",
			args:         []string{"-b", "keys", "-identity", "bob@example.com", "-e=http://minio:9000/"},
			allowedFlags: serverFlags,
			want:         []string{"-b", "keys", "-e=http://minio:9000/"},
		},
		{
			name:         "equals form with dash in value",
			args:         []string{"-config=--weird.json"},
			allowedFlags: []string{"-config"},
			want:         []string{"-config=--weird.json"},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-p"},
			allowedFlags: clientFlags,
			want:         []string{"-p"},
		},
		{
			name:         "next dash-starting token is not a value",
			args:         []string{"-t", "-s", "salt"},
			allowedFlags: clientFlags,
			want:         []string{"-t", "-s", "salt"},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-r", "5", "-r", "10"},
			allowedFlags: clientFlags,
			want:         []string{"-r", "5", "-r", "10"},
		},
		{
			name:         "positional and unknown arguments ignored",
			args:         []string{"extra", "--verbose", "-x=1"},
			allowedFlags: serverFlags,
			want:         []string{},
		},
		{
			name:         "empty args",
			args:         nil,
			allowedFlags: clientFlags,
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	t.Run("short -c with value", func(t *testing.T) {
		assert.Equal(t, "/path/short.json", ConfigFileFlag([]string{"-c", "/path/short.json"}))
	})

	t.Run("long -config with value", func(t *testing.T) {
		assert.Equal(t, "/path/long.json", ConfigFileFlag([]string{"-config", "/path/long.json"}))
	})

	t.Run("equals form", func(t *testing.T) {
		assert.Equal(t, "/path/eq.json", ConfigFileFlag([]string{"-a", "x", "-config=/path/eq.json"}))
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		assert.Empty(t, ConfigFileFlag([]string{"-x", "1", "-y", "2"}))
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		assert.Equal(t, "/path/2.json", ConfigFileFlag([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
	})
}

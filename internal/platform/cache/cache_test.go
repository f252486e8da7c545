package cache

import (
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/0", false},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	ctx := t.Context()
	_, err := New(ctx, "redis://localhost:59999")
	if err == nil {
		t.Fatal("New() should return error for unreachable host")
	}
}

func TestSetJSON_EncodeError(t *testing.T) {
	c := &Cache{Client: redis.NewClient(&redis.Options{Addr: "localhost:59999"})}
	t.Cleanup(func() { c.Close() })

	err := c.SetJSON(t.Context(), "readiness:test", make(chan int), 0)
	if err == nil || !strings.Contains(err.Error(), "encode readiness:test") {
		t.Fatalf("SetJSON() error = %v, want encode error", err)
	}
}

package mysqlstore

import (
	"context"
	"os"
	"testing"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		wantErr bool
	}{
		{"tcp", "root:secret@tcp(127.0.0.1:3306)/lister", false},
		{"with params", "u:p@tcp(db:3306)/lister?parseTime=true", false},
		{"no database", "root:secret@tcp(127.0.0.1:3306)/", true},
		{"garbage", "://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDSN(tt.dsn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDSN(%q): err=%v, wantErr=%v", tt.dsn, err, tt.wantErr)
			}
		})
	}
}

// TestRoundTrip runs only against a real server.
func TestRoundTrip(t *testing.T) {
	dsn := os.Getenv("LISTER_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("LISTER_TEST_MYSQL_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	key := "lister-test-" + t.Name()
	if err := s.Set(ctx, key, []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, key, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Set again: %v", err)
	}
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get: got (%v, %v)", ok, err)
	}
	if string(v) != `[{"id":"a"}]` {
		t.Errorf("Get: got %s", v)
	}
	if _, ok, _ := s.Get(ctx, key+"-missing"); ok {
		t.Errorf("Get missing: got ok")
	}
}

package supervisor

import (
	"net"
	"testing"

	"go.uber.org/zap"

	"raydiumsentry/internal/config"
)

func testConfig() *config.Trade {
	return &config.Trade{
		HTTPAddr: &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0},
		GRPCURL:  "localhost:0",
	}
}

func TestNewWiresAccessorsAtZeroState(t *testing.T) {
	s, err := New(testConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("New returned an error: %v", err)
	}

	if s.ShutdownFlag().Load() {
		t.Fatal("expected the shutdown flag to start unset")
	}
	if s.Counter().Load() != 0 {
		t.Fatal("expected the trading-task counter to start at zero")
	}
	if s.Router() == nil {
		t.Fatal("expected a non-nil router")
	}
}

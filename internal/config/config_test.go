package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

const validTradeDoc = `
[tokio_runtime]
maximum_blocking_threads_quantity = { value = 4 }
worker_threads_quantity = { value = 4 }
worker_thread_stack_size = { value = 2097152 }

[http_server]
tcp_socket_address = { value = "127.0.0.1:8080" }

[logging]
directory_path = { value = "" }
file_name_prefix = { value = "" }

[geyser]
grpc_url = { value = "http://localhost:10000" }
grpc_auth_token = { value = "" }

[traiding]
private_key = { value = [1, 2, 3] }
initial_pc_amount = { value = 1000000000 }
`

func TestLoadTradeAcceptsMisspelledTraidingKey(t *testing.T) {
	path := writeTemp(t, "environment.toml", validTradeDoc)
	cfg, err := LoadTrade(path)
	if err != nil {
		t.Fatalf("unexpected error loading a well-formed document: %v", err)
	}
	if cfg.Trading.InitialPcAmount != 1000000000 {
		t.Errorf("got InitialPcAmount=%d, want 1000000000", cfg.Trading.InitialPcAmount)
	}
	if cfg.HTTPAddr.String() != "127.0.0.1:8080" {
		t.Errorf("got HTTPAddr=%s, want 127.0.0.1:8080", cfg.HTTPAddr)
	}
}

func TestLoadTradeMissingFile(t *testing.T) {
	if _, err := LoadTrade(filepath.Join(t.TempDir(), "does-not-exist.toml")); err == nil {
		t.Fatal("expected an error for a missing configuration file")
	}
}

func TestLoadTradeRejectsCorrectlySpelledTradingKey(t *testing.T) {
	// The "traiding" section name is fixed for configuration-file
	// compatibility; a document that spells it correctly carries no
	// [traiding] section at all and must be rejected as an unknown-field
	// document, proving the misspelling is load-bearing rather than
	// cosmetic.
	doc := `
[tokio_runtime]
maximum_blocking_threads_quantity = { value = 4 }
worker_threads_quantity = { value = 4 }
worker_thread_stack_size = { value = 2097152 }

[http_server]
tcp_socket_address = { value = "127.0.0.1:8080" }

[logging]
directory_path = { value = "" }
file_name_prefix = { value = "" }

[geyser]
grpc_url = { value = "http://localhost:10000" }
grpc_auth_token = { value = "" }

[trading]
private_key = { value = [1, 2, 3] }
initial_pc_amount = { value = 1000000000 }
`
	path := writeTemp(t, "environment.toml", doc)
	if _, err := LoadTrade(path); err == nil {
		t.Fatal("expected an error for a correctly-spelled trading section, the traiding misspelling is required")
	}
}

func TestLoadTradeRejectsUndersizedStack(t *testing.T) {
	doc := `
[tokio_runtime]
maximum_blocking_threads_quantity = { value = 4 }
worker_threads_quantity = { value = 4 }
worker_thread_stack_size = { value = 1024 }

[http_server]
tcp_socket_address = { value = "127.0.0.1:8080" }

[logging]
directory_path = { value = "" }
file_name_prefix = { value = "" }

[geyser]
grpc_url = { value = "http://localhost:10000" }
grpc_auth_token = { value = "" }

[traiding]
private_key = { value = [1, 2, 3] }
initial_pc_amount = { value = 1000000000 }
`
	path := writeTemp(t, "environment.toml", doc)
	if _, err := LoadTrade(path); err == nil {
		t.Fatal("expected an error for a sub-1MiB worker thread stack size")
	}
}

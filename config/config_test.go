package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, "game_listen_address: \"127.0.0.1:9250\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GameListenAddress != "127.0.0.1:9250" {
		t.Errorf("GameListenAddress = %q, want %q", cfg.GameListenAddress, "127.0.0.1:9250")
	}
	if cfg.OpcodeTablePath != defaultOpcodeTablePath {
		t.Errorf("OpcodeTablePath = %q, want default %q", cfg.OpcodeTablePath, defaultOpcodeTablePath)
	}
	if cfg.LoginListenAddress != defaultLoginListenAddress {
		t.Errorf("LoginListenAddress = %q, want default %q", cfg.LoginListenAddress, defaultLoginListenAddress)
	}
	if cfg.RegionSuffix != defaultRegionSuffix {
		t.Errorf("RegionSuffix = %q, want default %q", cfg.RegionSuffix, defaultRegionSuffix)
	}
	if cfg.IdleTimeout() != defaultIdleTimeout {
		t.Errorf("IdleTimeout() = %v, want %v", cfg.IdleTimeout(), defaultIdleTimeout)
	}
}

func TestLoadHonorsExplicitValues(t *testing.T) {
	path := writeTempConfig(t, ""+
		"game_listen_address: \"0.0.0.0:9251\"\n"+
		"opcode_table_path: \"/etc/gamecore/opcodes.txt\"\n"+
		"idle_timeout_seconds: 60\n"+
		"login_listen_address: \"0.0.0.0:8443\"\n"+
		"region_suffix: \".de\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OpcodeTablePath != "/etc/gamecore/opcodes.txt" {
		t.Errorf("OpcodeTablePath = %q", cfg.OpcodeTablePath)
	}
	if cfg.IdleTimeout() != 60*time.Second {
		t.Errorf("IdleTimeout() = %v, want 60s", cfg.IdleTimeout())
	}
	if cfg.RegionSuffix != ".de" {
		t.Errorf("RegionSuffix = %q, want .de", cfg.RegionSuffix)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

package config

import "testing"

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Gravity != 0.1 {
		t.Errorf("Engine.Gravity = %v, want 0.1", cfg.Engine.Gravity)
	}
	if cfg.Engine.Seed != 1337 {
		t.Errorf("Engine.Seed = %v, want 1337", cfg.Engine.Seed)
	}
	if cfg.Engine.MaxTicks <= 0 {
		t.Errorf("Engine.MaxTicks = %v, want positive", cfg.Engine.MaxTicks)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	global = nil
	defer func() {
		if recover() == nil {
			t.Fatal("Cfg() did not panic before Init()")
		}
	}()
	Cfg()
}

func TestInitThenCfg(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Cfg() == nil {
		t.Fatal("Cfg() returned nil after Init")
	}
}

package config

import "testing"

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Language != "java" {
		t.Errorf("Expected the default target language to be java, got %q", cfg.Language)
	}
	if cfg.MaxHours != 4.0 {
		t.Errorf("Expected the default hour cap to be 4, got %v", cfg.MaxHours)
	}
	if cfg.HoursPerDay != 8.0 {
		t.Errorf("Expected an 8 hour working day, got %v", cfg.HoursPerDay)
	}
	if cfg.BufferPercentage != 20.0 {
		t.Errorf("Expected a 20%% buffer, got %v", cfg.BufferPercentage)
	}
	if cfg.PseudoCodeField != "Pseudo Code" {
		t.Errorf("Expected the default pseudo-code field name, got %q", cfg.PseudoCodeField)
	}
	if cfg.OriginalEstimateField != "" {
		t.Errorf("Expected the original-estimate field to be disabled by default, got %q", cfg.OriginalEstimateField)
	}
}

func TestMaxHoursFromEnvironment(t *testing.T) {
	t.Setenv("MAX_HOURS", "6.5")

	cfg := NewConfig()
	if cfg.MaxHours != 6.5 {
		t.Errorf("Expected MAX_HOURS to be honored, got %v", cfg.MaxHours)
	}
}

func TestMaxHoursLegacyDaysAlias(t *testing.T) {
	t.Setenv("MAX_DAYS", "2")

	cfg := NewConfig()
	if cfg.MaxHours != 16 {
		t.Errorf("Expected MAX_DAYS=2 to convert to 16 hours, got %v", cfg.MaxHours)
	}
}

func TestMaxHoursExplicitBeatsAlias(t *testing.T) {
	t.Setenv("MAX_HOURS", "6")
	t.Setenv("MAX_DAYS", "2")

	cfg := NewConfig()
	if cfg.MaxHours != 6 {
		t.Errorf("Expected MAX_HOURS to win over MAX_DAYS, got %v", cfg.MaxHours)
	}
}

func TestMaxHoursInvalidFallsBack(t *testing.T) {
	t.Setenv("MAX_HOURS", "not-a-number")

	cfg := NewConfig()
	if cfg.MaxHours != 4.0 {
		t.Errorf("Expected an invalid MAX_HOURS to fall back to the default, got %v", cfg.MaxHours)
	}
}

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Schedule.validate(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if err := c.Selector.validate(); err != nil {
		return fmt.Errorf("selector: %w", err)
	}
	if err := c.Guard.validate(); err != nil {
		return fmt.Errorf("guard: %w", err)
	}

	return nil
}

func (s *ScheduleConfig) validate() error {
	if s.PassThreshold <= 0 || s.PassThreshold >= 1 {
		return fmt.Errorf("pass_threshold must be in (0, 1) (got %v)", s.PassThreshold)
	}
	if s.EaseBonusThreshold < s.PassThreshold || s.EaseBonusThreshold > 1 {
		return fmt.Errorf("ease_bonus_threshold must be in [pass_threshold, 1] (got %v)", s.EaseBonusThreshold)
	}
	if s.ImmediateCheckSize < 1 {
		return fmt.Errorf("immediate_check_size must be >= 1 (got %d)", s.ImmediateCheckSize)
	}
	if s.Strategy != "sm2" && s.Strategy != "fsrs" {
		return fmt.Errorf("strategy must be \"sm2\" or \"fsrs\" (got %q)", s.Strategy)
	}

	progression, err := ParseProgression(s.ProgressionRaw)
	if err != nil {
		return fmt.Errorf("progression: %w", err)
	}
	s.Progression = progression

	return nil
}

func (s *SelectorConfig) validate() error {
	if s.DayCap <= 0 {
		return fmt.Errorf("day_cap must be > 0 (got %d)", s.DayCap)
	}
	if s.ConnectedRatio < 0 || s.ConnectedRatio > 1 {
		return fmt.Errorf("connected_ratio must be in [0, 1] (got %v)", s.ConnectedRatio)
	}
	if s.MaxHops < 1 || s.MaxHops > 3 {
		return fmt.Errorf("max_hops must be in [1, 3] (got %d)", s.MaxHops)
	}
	return nil
}

func (g *GuardConfig) validate() error {
	if g.SpeedTrapMs <= 0 {
		return fmt.Errorf("speed_trap_ms must be > 0 (got %d)", g.SpeedTrapMs)
	}
	if g.FastAnswerMs < g.SpeedTrapMs {
		return fmt.Errorf("fast_answer_ms must be >= speed_trap_ms (got %d < %d)", g.FastAnswerMs, g.SpeedTrapMs)
	}
	if g.PerfectRunLength < 2 {
		return fmt.Errorf("perfect_run_length must be >= 2 (got %d)", g.PerfectRunLength)
	}
	return nil
}

// ParseProgression parses a comma-separated string of day counts
// (e.g. "1,3,7") into a slice of ints. Values must be positive and
// non-decreasing. An empty string is an error: the scheduling core needs at
// least one fixed step.
func ParseProgression(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("must not be empty")
	}

	parts := strings.Split(raw, ",")
	days := make([]int, 0, len(parts))

	prev := 0
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid day count %q: %w", p, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("day count must be positive (got %d)", d)
		}
		if d < prev {
			return nil, fmt.Errorf("day counts must be non-decreasing (got %d after %d)", d, prev)
		}
		days = append(days, d)
		prev = d
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("must contain at least one day count")
	}

	return days, nil
}

// Package config loads rep-counting tuning from JSON.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/curlcount/internal/rep"
)

// maxTuningSize bounds tuning files and request bodies.
const maxTuningSize = 64 * 1024

// Tuning overrides rep counting parameters. Nil fields keep the value of the
// config they are applied to, so partial documents are safe. The same schema
// is used by --tuning files, the settings store and /api/settings.
type Tuning struct {
	// Rep detection
	SmoothingWindow  *int     `json:"smoothing_window,omitempty"`
	MinCurlAngle     *float64 `json:"min_curl_angle,omitempty"`
	MaxExtendAngle   *float64 `json:"max_extend_angle,omitempty"`
	RepCooldown      *string  `json:"rep_cooldown,omitempty"` // duration string like "400ms"
	MinRangeOfMotion *float64 `json:"min_range_of_motion,omitempty"`
	UpFallbackOffset *float64 `json:"up_fallback_offset,omitempty"`
	AbandonOffset    *float64 `json:"abandon_offset,omitempty"`

	// Activity scoring
	VelocityWeight   *float64 `json:"velocity_weight,omitempty"`
	RangeWeight      *float64 `json:"range_weight,omitempty"`
	ConfidenceWeight *float64 `json:"confidence_weight,omitempty"`
	Alpha            *float64 `json:"alpha,omitempty"`
	MissDecay        *float64 `json:"miss_decay,omitempty"`
	MinConfidence    *float64 `json:"min_confidence,omitempty"`
	ActiveThreshold  *float64 `json:"active_threshold,omitempty"`
	MinVelocity      *float64 `json:"min_velocity,omitempty"`
	BothMargin       *float64 `json:"both_margin,omitempty"`
}

func ptr[T any](v T) *T { return &v }

// LoadTuning reads and validates a tuning file. The file must have a .json
// extension and be smaller than 64KiB.
func LoadTuning(path string) (*Tuning, error) {
	clean := filepath.Clean(path)
	if ext := filepath.Ext(clean); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(clean)
	if err != nil {
		return nil, fmt.Errorf("stat tuning file: %w", err)
	}
	if info.Size() > maxTuningSize {
		return nil, fmt.Errorf("tuning file too large: %d bytes (max %d)", info.Size(), maxTuningSize)
	}

	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("read tuning file: %w", err)
	}
	return ParseTuning(data)
}

// ParseTuning decodes and validates a tuning document. Unknown fields are
// rejected so typos do not silently fall back to defaults.
func ParseTuning(data []byte) (*Tuning, error) {
	if len(data) > maxTuningSize {
		return nil, fmt.Errorf("tuning document too large: %d bytes (max %d)", len(data), maxTuningSize)
	}

	t := &Tuning{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(t); err != nil {
		return nil, fmt.Errorf("parse tuning JSON: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that the overrides parse and produce a usable config when
// applied to the defaults.
func (t *Tuning) Validate() error {
	if t.RepCooldown != nil {
		if _, err := time.ParseDuration(*t.RepCooldown); err != nil {
			return fmt.Errorf("invalid rep_cooldown %q: %w", *t.RepCooldown, err)
		}
	}
	if err := t.Apply(rep.DefaultConfig()).Validate(); err != nil {
		return fmt.Errorf("invalid tuning: %w", err)
	}
	return nil
}

// Apply returns base with every set field overridden.
func (t *Tuning) Apply(base rep.Config) rep.Config {
	if t == nil {
		return base
	}
	c := base

	setInt(&c.SmoothingWindow, t.SmoothingWindow)
	setFloat(&c.MinCurlAngle, t.MinCurlAngle)
	setFloat(&c.MaxExtendAngle, t.MaxExtendAngle)
	c.RepCooldown = t.GetRepCooldown(base.RepCooldown)
	setFloat(&c.MinRangeOfMotion, t.MinRangeOfMotion)
	setFloat(&c.UpFallbackOffset, t.UpFallbackOffset)
	setFloat(&c.AbandonOffset, t.AbandonOffset)

	a := &c.Activity
	setFloat(&a.VelocityWeight, t.VelocityWeight)
	setFloat(&a.RangeWeight, t.RangeWeight)
	setFloat(&a.ConfidenceWeight, t.ConfidenceWeight)
	setFloat(&a.Alpha, t.Alpha)
	setFloat(&a.MissDecay, t.MissDecay)
	setFloat(&a.MinConfidence, t.MinConfidence)
	setFloat(&a.ActiveThreshold, t.ActiveThreshold)
	setFloat(&a.MinVelocity, t.MinVelocity)
	setFloat(&a.BothMargin, t.BothMargin)

	return c
}

// Merge returns a copy of t with every field set in other taking precedence.
func (t *Tuning) Merge(other *Tuning) *Tuning {
	out := &Tuning{}
	if t != nil {
		*out = *t
	}
	if other == nil {
		return out
	}

	for _, f := range []struct{ dst, src **float64 }{
		{&out.MinCurlAngle, &other.MinCurlAngle},
		{&out.MaxExtendAngle, &other.MaxExtendAngle},
		{&out.MinRangeOfMotion, &other.MinRangeOfMotion},
		{&out.UpFallbackOffset, &other.UpFallbackOffset},
		{&out.AbandonOffset, &other.AbandonOffset},
		{&out.VelocityWeight, &other.VelocityWeight},
		{&out.RangeWeight, &other.RangeWeight},
		{&out.ConfidenceWeight, &other.ConfidenceWeight},
		{&out.Alpha, &other.Alpha},
		{&out.MissDecay, &other.MissDecay},
		{&out.MinConfidence, &other.MinConfidence},
		{&out.ActiveThreshold, &other.ActiveThreshold},
		{&out.MinVelocity, &other.MinVelocity},
		{&out.BothMargin, &other.BothMargin},
	} {
		if *f.src != nil {
			*f.dst = *f.src
		}
	}
	if other.SmoothingWindow != nil {
		out.SmoothingWindow = other.SmoothingWindow
	}
	if other.RepCooldown != nil {
		out.RepCooldown = other.RepCooldown
	}
	return out
}

// FromConfig returns a fully populated tuning document describing c.
func FromConfig(c rep.Config) *Tuning {
	a := c.Activity
	return &Tuning{
		SmoothingWindow:  ptr(c.SmoothingWindow),
		MinCurlAngle:     ptr(c.MinCurlAngle),
		MaxExtendAngle:   ptr(c.MaxExtendAngle),
		RepCooldown:      ptr(c.RepCooldown.String()),
		MinRangeOfMotion: ptr(c.MinRangeOfMotion),
		UpFallbackOffset: ptr(c.UpFallbackOffset),
		AbandonOffset:    ptr(c.AbandonOffset),
		VelocityWeight:   ptr(a.VelocityWeight),
		RangeWeight:      ptr(a.RangeWeight),
		ConfidenceWeight: ptr(a.ConfidenceWeight),
		Alpha:            ptr(a.Alpha),
		MissDecay:        ptr(a.MissDecay),
		MinConfidence:    ptr(a.MinConfidence),
		ActiveThreshold:  ptr(a.ActiveThreshold),
		MinVelocity:      ptr(a.MinVelocity),
		BothMargin:       ptr(a.BothMargin),
	}
}

// GetRepCooldown returns the rep_cooldown value or def when unset or unparsable.
func (t *Tuning) GetRepCooldown(def time.Duration) time.Duration {
	if t == nil || t.RepCooldown == nil || *t.RepCooldown == "" {
		return def
	}
	d, err := time.ParseDuration(*t.RepCooldown)
	if err != nil {
		return def
	}
	return d
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
